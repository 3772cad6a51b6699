package player

import (
	"context"

	"token-rush-go/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Overview is the dashboard shown between actions
type Overview struct {
	Balance  decimal.Decimal
	Treasury decimal.Decimal
	Owners   []models.TokenOwner
}

// Overview loads the player balance, the treasury balance and the
// leaderboard concurrently.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := s.Balance(gctx)
		if err != nil {
			return err
		}
		out.Balance = balance
		return nil
	})

	g.Go(func() error {
		raw, err := s.api.TreasuryBalance(gctx)
		if err != nil {
			return err
		}
		treasury, err := s.toUnits(raw)
		if err != nil {
			return err
		}
		out.Treasury = treasury
		return nil
	})

	g.Go(func() error {
		owners, err := s.api.Leaderboard(gctx)
		if err != nil {
			return err
		}
		out.Owners = owners
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
