package transfer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/thirdweb"
)

// LoginSession is the outcome of a successful code verification. AuthToken
// goes into the session cookie and never into a response body.
type LoginSession struct {
	AuthToken string
	User      models.User
}

func (s *Service) SendCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return invalid("Email is required")
	}

	if err := s.gateway.SendLoginCode(ctx, email); err != nil {
		return fmt.Errorf("unable to send login code: %w", err)
	}
	return nil
}

// Login verifies an emailed code. A provider rejection of the code is a
// validation failure; anything else is an upstream error.
func (s *Service) Login(ctx context.Context, email, code string) (*LoginSession, error) {
	email = strings.TrimSpace(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, invalid("Email and code are required")
	}

	result, err := s.gateway.VerifyLoginCode(ctx, email, code)
	if err != nil {
		if isUpstreamClientError(err) {
			return nil, invalid("Invalid or expired code")
		}
		return nil, fmt.Errorf("unable to verify login code: %w", err)
	}

	return &LoginSession{
		AuthToken: result.Token,
		User: models.User{
			Id:                 email,
			Email:              email,
			WalletAddress:      result.WalletAddress,
			SmartWalletAddress: result.SmartWalletAddress,
			CreatedAt:          time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// CreateUser provisions a custodial wallet keyed by username. The user gets no
// session; logging in still goes through the emailed code.
func (s *Service) CreateUser(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("Username is required")
	}

	wallet, err := s.gateway.CreateWallet(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("unable to create user: %w", err)
	}

	createdAt := wallet.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}
	return &models.User{
		Id:                 username,
		WalletAddress:      wallet.Address,
		SmartWalletAddress: wallet.SmartWalletAddress,
		CreatedAt:          createdAt,
	}, nil
}

// isUpstreamClientError reports whether err is a 4xx answer from the provider
func isUpstreamClientError(err error) bool {
	var providerErr *thirdweb.ProviderError
	return errors.As(err, &providerErr) && providerErr.StatusCode >= http.StatusBadRequest && providerErr.StatusCode < http.StatusInternalServerError
}
