package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"token-rush-go/internal/models"
	"token-rush-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Fixed width so stored timestamps sort as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func (s *Service) AddTransaction(ctx context.Context, record models.TransactionRecord) error {
	var existingId string
	err := s.db.QueryRowContext(ctx, queryCheckDuplicateTransaction, record.Id).Scan(&existingId)
	if err == nil {
		zap.L().Warn("Duplicate local transaction id, skipping", zap.String("id", record.Id))
		return fmt.Errorf("%w: %s", store.ErrDuplicateTransaction, record.Id)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check for duplicate transaction: %w", err)
	}

	_, err = s.db.ExecContext(ctx, queryInsertTransaction,
		record.Id, record.Kind, nullString(record.TransactionHash), record.Amount.String(),
		string(record.Status), record.CreatedAt.UTC().Format(timeLayout), nullTime(record.ConfirmedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	zap.L().Debug("Recorded local transaction",
		zap.String("id", record.Id),
		zap.String("kind", record.Kind),
		zap.String("amount", record.Amount.String()))
	return nil
}

func (s *Service) SetTransactionHash(ctx context.Context, id, hash string) error {
	result, err := s.db.ExecContext(ctx, querySetTransactionHash, hash, id)
	if err != nil {
		return fmt.Errorf("failed to set transaction hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTransactionNotFound
	}
	return nil
}

// SetTransactionAmount replaces the amount of an optimistic record once the
// server reports what was actually moved.
func (s *Service) SetTransactionAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	result, err := s.db.ExecContext(ctx, querySetTransactionAmount, amount.String(), id)
	if err != nil {
		return fmt.Errorf("failed to set transaction amount: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrTransactionNotFound
	}
	return nil
}

// UpdateTransactionStatus moves a pending record to its final status. Records
// already confirmed or failed are left untouched.
func (s *Service) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus, confirmedAt *time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, queryGetTransactionStatus, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTransactionNotFound
	} else if err != nil {
		return fmt.Errorf("failed to get transaction status: %w", err)
	}

	if models.TransactionStatus(current).IsTerminal() {
		return store.ErrAlreadyTerminal
	}

	if _, err := tx.ExecContext(ctx, queryUpdateTransactionStatus, string(status), nullTime(confirmedAt), id); err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Debug("Updated local transaction status",
		zap.String("id", id),
		zap.String("status", string(status)))
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*models.TransactionRecord, error) {
	record, err := scanTransaction(s.db.QueryRowContext(ctx, queryGetTransaction, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("unable to query transaction: %w", err)
	}
	return record, nil
}

// ListTransactions returns the newest records first. A non-positive limit returns all.
func (s *Service) ListTransactions(ctx context.Context, limit int) ([]models.TransactionRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.queryTransactions(ctx, queryListTransactions, limit)
}

func (s *Service) ListPendingTransactions(ctx context.Context) ([]models.TransactionRecord, error) {
	return s.queryTransactions(ctx, queryListPendingTransactions)
}

func (s *Service) queryTransactions(ctx context.Context, query string, args ...any) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to query transactions", zap.Error(err))
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer closeRows(rows)

	var records []models.TransactionRecord
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transaction row: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.TransactionRecord, error) {
	var (
		record      models.TransactionRecord
		hash        sql.NullString
		amount      string
		status      string
		createdAt   string
		confirmedAt sql.NullString
	)

	if err := row.Scan(&record.Id, &record.Kind, &hash, &amount, &status, &createdAt, &confirmedAt); err != nil {
		return nil, err
	}

	var err error
	record.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount '%s': %w", amount, err)
	}

	record.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at '%s': %w", createdAt, err)
	}

	if hash.Valid {
		record.TransactionHash = &hash.String
	}
	if confirmedAt.Valid {
		t, err := time.Parse(timeLayout, confirmedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse confirmed_at '%s': %w", confirmedAt.String, err)
		}
		record.ConfirmedAt = &t
	}

	record.Status = models.TransactionStatus(status)
	return &record, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}
