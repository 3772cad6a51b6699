package thirdweb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"token-rush-go/internal/models"
	"token-rush-go/internal/token"

	"go.uber.org/zap"
)

const (
	balanceOfMethod = "function balanceOf(address owner) view returns (uint256)"
	transferMethod  = "function transfer(address to, uint256 amount)"
)

type contractReadRequest struct {
	Calls   []models.ContractCall `json:"calls"`
	ChainId int64                 `json:"chainId"`
}

type contractWriteRequest struct {
	Calls   []models.ContractCall `json:"calls"`
	ChainId int64                 `json:"chainId"`
	From    string                `json:"from"`
}

// ReadContract issues read-only calls; no user token is needed for public chain reads
func (s *Service) ReadContract(ctx context.Context, calls []models.ContractCall, chainId int64) ([]models.ContractReadResult, error) {
	request := contractReadRequest{Calls: calls, ChainId: chainId}

	var results []models.ContractReadResult
	if err := s.doRequest(ctx, "read_contract", http.MethodPost, "/v1/contracts/read", request, "", &results); err != nil {
		return nil, fmt.Errorf("unable to read contract: %w", err)
	}
	return results, nil
}

// WriteContract issues contract writes attributed to from. An empty authToken
// means the server's secret key alone authorizes the write.
func (s *Service) WriteContract(ctx context.Context, calls []models.ContractCall, chainId int64, from, authToken string) (*models.ContractWriteResult, error) {
	request := contractWriteRequest{Calls: calls, ChainId: chainId, From: from}

	var result models.ContractWriteResult
	if err := s.doRequest(ctx, "write_contract", http.MethodPost, "/v1/contracts/write", request, authToken, &result); err != nil {
		return nil, fmt.Errorf("unable to write contract: %w", err)
	}
	return &result, nil
}

// GetTokenBalance returns the raw base-unit balance of wallet as a decimal integer string
func (s *Service) GetTokenBalance(ctx context.Context, wallet, tokenAddress string, chainId int64) (string, error) {
	calls := []models.ContractCall{{
		ContractAddress: tokenAddress,
		Method:          balanceOfMethod,
		Params:          []any{wallet},
	}}

	results, err := s.ReadContract(ctx, calls, chainId)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", fmt.Errorf("balance read returned no results")
	}

	first := results[0]
	if first.Error != "" {
		return "", fmt.Errorf("balance read failed: %s", first.Error)
	}

	var raw string
	switch v := first.Data.(type) {
	case string:
		raw = v
	case json.Number:
		raw = v.String()
	case nil:
		raw = "0"
	default:
		return "", fmt.Errorf("unexpected balance type %T", first.Data)
	}

	balance, err := token.ParseBaseUnits(raw)
	if err != nil {
		return "", fmt.Errorf("invalid balance from provider: %w", err)
	}
	return balance.String(), nil
}

// TransferTokens moves amount base units of the token from one wallet to another
func (s *Service) TransferTokens(ctx context.Context, from, to, amount, tokenAddress string, chainId int64, authToken string) ([]string, error) {
	zap.L().Info("Submitting token transfer",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("amount", amount),
		zap.String("token", tokenAddress),
		zap.Int64("chain_id", chainId),
		zap.Bool("user_auth", authToken != ""))

	calls := []models.ContractCall{{
		ContractAddress: tokenAddress,
		Method:          transferMethod,
		Params:          []any{to, amount},
	}}

	result, err := s.WriteContract(ctx, calls, chainId, from, authToken)
	if err != nil {
		zap.L().Error("Failed to submit token transfer",
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return nil, err
	}

	zap.L().Info("Token transfer submitted",
		zap.Strings("transaction_ids", result.TransactionIds))

	return result.TransactionIds, nil
}
