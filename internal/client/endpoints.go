package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"token-rush-go/internal/models"
	"token-rush-go/internal/session"
)

func (c *Client) SendCode(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/send-code", models.SendCodeRequest{Email: email}, nil)
	return err
}

// VerifyCode logs in and stores the player, including the CSRF token echoed
// by the server.
func (c *Client) VerifyCode(ctx context.Context, email, code string) (*models.User, error) {
	var out models.VerifyCodeResponse
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/verify-code", models.VerifyCodeRequest{Email: email, Code: code}, &out)
	if err != nil {
		return nil, err
	}

	user := out.User
	if header := resp.Header.Get(session.CSRFHeaderName); header != "" {
		user.CsrfToken = header
	}

	if err := c.users.SetCurrentUser(ctx, user); err != nil {
		return nil, fmt.Errorf("unable to store user: %w", err)
	}
	return &user, nil
}

// Logout clears the server cookies and the stored player. The stored player
// is cleared even if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if clearErr := c.users.ClearCurrentUser(ctx); clearErr != nil {
		return fmt.Errorf("unable to clear user: %w", clearErr)
	}
	return err
}

func (c *Client) Balance(ctx context.Context, address string) (string, error) {
	var out models.BalanceResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/balance?address="+url.QueryEscape(address), nil, &out); err != nil {
		return "", err
	}
	return out.Balance, nil
}

func (c *Client) TreasuryBalance(ctx context.Context) (string, error) {
	var out models.BalanceResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/treasury-balance", nil, &out); err != nil {
		return "", err
	}
	return out.Balance, nil
}

func (c *Client) Reward(ctx context.Context, data *models.GameSessionData) (*models.TransferResult, error) {
	var out models.TransferResult
	if _, err := c.do(ctx, http.MethodPost, "/api/reward", models.RewardRequest{GameSessionData: data}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Penalty(ctx context.Context) (*models.TransferResult, error) {
	var out models.TransferResult
	if _, err := c.do(ctx, http.MethodPost, "/api/penalty", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Withdraw(ctx context.Context, recipient string) (*models.TransferResult, error) {
	var out models.TransferResult
	if _, err := c.do(ctx, http.MethodPost, "/api/withdraw", models.WithdrawRequest{RecipientAddress: recipient}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Transaction(ctx context.Context, id string) (*models.ProviderTransaction, error) {
	var out models.TransactionResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/transaction/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.Result == nil {
		return nil, fmt.Errorf("transaction %s: empty result", id)
	}
	return out.Result, nil
}

func (c *Client) Transactions(ctx context.Context, page, limit int) (*models.TransactionList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var out models.TransactionsResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/transactions?"+query.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.Transactions, nil
}

func (c *Client) Leaderboard(ctx context.Context) ([]models.TokenOwner, error) {
	var out models.LeaderboardResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &out); err != nil {
		return nil, err
	}
	return out.Owners, nil
}
