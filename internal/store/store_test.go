package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"token-rush-go/internal/models"

	"github.com/shopspring/decimal"
)

func TestMemory_CurrentUser(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.GetCurrentUser(ctx); !errors.Is(err, ErrNoCurrentUser) {
		t.Fatalf("expected ErrNoCurrentUser, got %v", err)
	}

	user := models.User{Id: "player@example.com", Email: "player@example.com", WalletAddress: "0x1", CsrfToken: "csrf"}
	if err := m.SetCurrentUser(ctx, user); err != nil {
		t.Fatalf("SetCurrentUser failed: %v", err)
	}

	got, err := m.GetCurrentUser(ctx)
	if err != nil {
		t.Fatalf("GetCurrentUser failed: %v", err)
	}
	if *got != user {
		t.Errorf("expected %+v, got %+v", user, *got)
	}

	got.CsrfToken = "mutated"
	again, _ := m.GetCurrentUser(ctx)
	if again.CsrfToken != "csrf" {
		t.Error("returned user should be a copy")
	}

	if err := m.ClearCurrentUser(ctx); err != nil {
		t.Fatalf("ClearCurrentUser failed: %v", err)
	}
	if _, err := m.GetCurrentUser(ctx); !errors.Is(err, ErrNoCurrentUser) {
		t.Errorf("expected ErrNoCurrentUser after clear, got %v", err)
	}
}

func TestMemory_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now().UTC()

	record := models.TransactionRecord{
		Id:        "local-1",
		Kind:      models.KindPenalty,
		Amount:    decimal.RequireFromString("-0.05"),
		Status:    models.StatusPending,
		CreatedAt: now,
	}
	if err := m.AddTransaction(ctx, record); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if err := m.AddTransaction(ctx, record); !errors.Is(err, ErrDuplicateTransaction) {
		t.Errorf("expected ErrDuplicateTransaction, got %v", err)
	}

	if err := m.SetTransactionHash(ctx, "local-1", "tx-1"); err != nil {
		t.Fatalf("SetTransactionHash failed: %v", err)
	}
	if err := m.SetTransactionAmount(ctx, "local-1", decimal.RequireFromString("-0.03")); err != nil {
		t.Fatalf("SetTransactionAmount failed: %v", err)
	}

	pending, _ := m.ListPendingTransactions(ctx)
	if len(pending) != 1 || *pending[0].TransactionHash != "tx-1" {
		t.Fatalf("expected one pending record with hash, got %+v", pending)
	}

	confirmedAt := now.Add(5 * time.Second)
	if err := m.UpdateTransactionStatus(ctx, "local-1", models.StatusConfirmed, &confirmedAt); err != nil {
		t.Fatalf("UpdateTransactionStatus failed: %v", err)
	}
	if err := m.UpdateTransactionStatus(ctx, "local-1", models.StatusFailed, nil); !errors.Is(err, ErrAlreadyTerminal) {
		t.Errorf("expected ErrAlreadyTerminal, got %v", err)
	}

	got, err := m.GetTransaction(ctx, "local-1")
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if got.Status != models.StatusConfirmed || got.ConfirmedAt == nil || !got.ConfirmedAt.Equal(confirmedAt) {
		t.Errorf("unexpected record %+v", got)
	}
	if !got.Amount.Equal(decimal.RequireFromString("-0.03")) {
		t.Errorf("expected amount -0.03, got %s", got.Amount)
	}

	pending, _ = m.ListPendingTransactions(ctx)
	if len(pending) != 0 {
		t.Errorf("expected no pending records, got %d", len(pending))
	}

	if _, err := m.GetTransaction(ctx, "missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
	if err := m.SetTransactionHash(ctx, "missing", "x"); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
	if err := m.SetTransactionAmount(ctx, "missing", decimal.Zero); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestMemory_ListTransactions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		_ = m.AddTransaction(ctx, models.TransactionRecord{
			Id:        id,
			Status:    models.StatusPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	records, err := m.ListTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	if len(records) != 2 || records[0].Id != "c" || records[1].Id != "b" {
		t.Errorf("expected newest first [c b], got %+v", records)
	}

	all, _ := m.ListTransactions(ctx, 0)
	if len(all) != 3 {
		t.Errorf("expected all 3 records, got %d", len(all))
	}
}
