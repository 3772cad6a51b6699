package thirdweb

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"token-rush-go/internal/models"

	"go.uber.org/zap"
)

const loginTypeEmail = "email"

// CreateWallet provisions a custodial wallet for identifier
func (s *Service) CreateWallet(ctx context.Context, identifier string) (*models.Wallet, error) {
	request := map[string]string{"identifier": identifier}

	var wallet models.Wallet
	if err := s.doRequest(ctx, "create_wallet", http.MethodPost, "/v1/wallets", request, "", &wallet); err != nil {
		zap.L().Error("Failed to create wallet",
			zap.String("identifier", identifier),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrWalletCreation, err)
	}

	if wallet.Address == "" {
		return nil, fmt.Errorf("%w: provider returned no address", ErrWalletCreation)
	}

	return &wallet, nil
}

// GetUserDetails resolves the wallet bound to a user's session token
func (s *Service) GetUserDetails(ctx context.Context, authToken string) (*models.UserDetails, error) {
	if authToken == "" {
		return nil, ErrInvalidAuthToken
	}

	var details models.UserDetails
	if err := s.doRequest(ctx, "get_user_details", http.MethodGet, "/v1/wallets/user/me", nil, authToken, &details); err != nil {
		var providerErr *ProviderError
		if errors.As(err, &providerErr) && providerErr.StatusCode >= http.StatusBadRequest && providerErr.StatusCode < http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAuthToken, err)
		}
		return nil, fmt.Errorf("unable to get user details: %w", err)
	}

	return &details, nil
}

// SendLoginCode asks the provider to email a one-time login code
func (s *Service) SendLoginCode(ctx context.Context, email string) error {
	request := map[string]string{
		"email": email,
		"type":  loginTypeEmail,
	}

	if err := s.doRequest(ctx, "send_login_code", http.MethodPost, "/v1/wallets/user/code", request, "", nil); err != nil {
		return fmt.Errorf("unable to send login code: %w", err)
	}
	return nil
}

// VerifyLoginCode exchanges an emailed code for a provider session token
func (s *Service) VerifyLoginCode(ctx context.Context, email, code string) (*models.LoginResult, error) {
	request := map[string]string{
		"email": email,
		"code":  code,
		"type":  loginTypeEmail,
	}

	var result models.LoginResult
	if err := s.doRequest(ctx, "verify_login_code", http.MethodPost, "/v1/wallets/user/code/verify", request, "", &result); err != nil {
		return nil, fmt.Errorf("unable to verify login code: %w", err)
	}

	if result.Token == "" {
		return nil, fmt.Errorf("unable to verify login code: provider returned no token")
	}

	return &result, nil
}
