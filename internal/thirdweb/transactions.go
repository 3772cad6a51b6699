package thirdweb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"token-rush-go/internal/models"
)

// GetTransaction fetches the current provider record of a transaction
func (s *Service) GetTransaction(ctx context.Context, transactionId string) (*models.ProviderTransaction, error) {
	path := "/v1/transactions/" + url.PathEscape(transactionId)

	var tx models.ProviderTransaction
	if err := s.doRequest(ctx, "get_transaction", http.MethodGet, path, nil, "", &tx); err != nil {
		return nil, fmt.Errorf("unable to get transaction %s: %w", transactionId, err)
	}
	return &tx, nil
}

func (s *Service) ListTransactions(ctx context.Context, page, limit int) (*models.TransactionList, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	var list models.TransactionList
	if err := s.doRequest(ctx, "list_transactions", http.MethodGet, "/v1/transactions?"+query.Encode(), nil, "", &list); err != nil {
		return nil, fmt.Errorf("unable to list transactions: %w", err)
	}
	return &list, nil
}

// GetTokenOwners lists holders of a token contract as reported by the provider
func (s *Service) GetTokenOwners(ctx context.Context, chainId int64, tokenAddress string, limit int) ([]models.TokenOwner, error) {
	path := fmt.Sprintf("/v1/tokens/%d/%s/owners?limit=%d", chainId, url.PathEscape(tokenAddress), limit)

	var result struct {
		Owners []models.TokenOwner `json:"owners"`
	}
	if err := s.doRequest(ctx, "get_token_owners", http.MethodGet, path, nil, "", &result); err != nil {
		return nil, fmt.Errorf("unable to get token owners: %w", err)
	}
	return result.Owners, nil
}
