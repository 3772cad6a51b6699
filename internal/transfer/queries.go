package transfer

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"token-rush-go/internal/models"
	"token-rush-go/internal/token"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PlayerBalance returns the raw base-unit token balance of address
func (s *Service) PlayerBalance(ctx context.Context, address string) (string, error) {
	if address == "" {
		return "", invalid("Wallet address is required")
	}
	if !token.IsAddress(address) {
		return "", invalid("Invalid wallet address")
	}

	balance, err := s.balanceOf(ctx, address)
	if err != nil {
		return "", err
	}
	return balance.String(), nil
}

func (s *Service) TreasuryBalance(ctx context.Context) (string, error) {
	return s.PlayerBalance(ctx, s.economy.TreasuryAddress)
}

func (s *Service) Transaction(ctx context.Context, transactionId string) (*models.ProviderTransaction, error) {
	if transactionId == "" {
		return nil, invalid("Transaction ID is required")
	}
	return s.gateway.GetTransaction(ctx, transactionId)
}

// Transactions lists provider transactions. Non-positive page or limit values
// fall back to the first page of ten; limit is capped.
func (s *Service) Transactions(ctx context.Context, page, limit int) (*models.TransactionList, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return s.gateway.ListTransactions(ctx, page, limit)
}

// Leaderboard returns the largest holders of the score token, highest first.
// Amounts that are not integers rank as zero.
func (s *Service) Leaderboard(ctx context.Context) ([]models.TokenOwner, error) {
	size := s.economy.LeaderboardSize
	if size <= 0 {
		size = 3
	}

	owners, err := s.gateway.GetTokenOwners(ctx, s.economy.ChainId, s.economy.ScoreTokenAddress, size)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch leaderboard: %w", err)
	}

	amounts := make([]*big.Int, len(owners))
	for i, owner := range owners {
		amount, err := token.ParseBaseUnits(owner.Amount)
		if err != nil {
			amount = new(big.Int)
		}
		amounts[i] = amount
	}

	indexes := make([]int, len(owners))
	for i := range indexes {
		indexes[i] = i
	}
	sort.SliceStable(indexes, func(a, b int) bool {
		return amounts[indexes[a]].Cmp(amounts[indexes[b]]) > 0
	})

	top := make([]models.TokenOwner, 0, size)
	for _, i := range indexes {
		if len(top) == size {
			break
		}
		top = append(top, owners[i])
	}
	return top, nil
}
