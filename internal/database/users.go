package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) GetCurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetCurrentUser).Scan(
		&user.Id, &user.Email, &user.WalletAddress, &user.SmartWalletAddress, &user.CreatedAt, &user.CsrfToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoCurrentUser
		}
		zap.L().Error("Failed to query current user", zap.Error(err))
		return nil, fmt.Errorf("unable to query current user: %w", err)
	}

	return &user, nil
}

func (s *Service) SetCurrentUser(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, queryUpsertCurrentUser,
		user.Id, user.Email, user.WalletAddress, user.SmartWalletAddress, user.CreatedAt, user.CsrfToken,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		zap.L().Error("Failed to store current user", zap.String("user_id", user.Id), zap.Error(err))
		return fmt.Errorf("unable to store current user: %w", err)
	}

	zap.L().Debug("Stored current user", zap.String("user_id", user.Id))
	return nil
}

func (s *Service) ClearCurrentUser(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, queryDeleteCurrentUser); err != nil {
		return fmt.Errorf("unable to clear current user: %w", err)
	}
	return nil
}
