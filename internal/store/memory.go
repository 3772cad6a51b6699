package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"token-rush-go/internal/models"

	"github.com/shopspring/decimal"
)

// Memory is a ProfileStore that lives for the lifetime of the process
type Memory struct {
	mu           sync.RWMutex
	user         *models.User
	transactions map[string]models.TransactionRecord
}

var _ ProfileStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{transactions: make(map[string]models.TransactionRecord)}
}

func (m *Memory) GetCurrentUser(_ context.Context) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.user == nil {
		return nil, ErrNoCurrentUser
	}
	user := *m.user
	return &user, nil
}

func (m *Memory) SetCurrentUser(_ context.Context, user models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = &user
	return nil
}

func (m *Memory) ClearCurrentUser(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.user = nil
	return nil
}

func (m *Memory) AddTransaction(_ context.Context, record models.TransactionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.transactions[record.Id]; exists {
		return ErrDuplicateTransaction
	}
	m.transactions[record.Id] = record
	return nil
}

func (m *Memory) SetTransactionHash(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.transactions[id]
	if !ok {
		return ErrTransactionNotFound
	}
	record.TransactionHash = &hash
	m.transactions[id] = record
	return nil
}

func (m *Memory) SetTransactionAmount(_ context.Context, id string, amount decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.transactions[id]
	if !ok {
		return ErrTransactionNotFound
	}
	record.Amount = amount
	m.transactions[id] = record
	return nil
}

func (m *Memory) UpdateTransactionStatus(_ context.Context, id string, status models.TransactionStatus, confirmedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.transactions[id]
	if !ok {
		return ErrTransactionNotFound
	}
	if record.Status.IsTerminal() {
		return ErrAlreadyTerminal
	}
	record.Status = status
	record.ConfirmedAt = confirmedAt
	m.transactions[id] = record
	return nil
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*models.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.transactions[id]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &record, nil
}

// ListTransactions returns the newest records first. A non-positive limit returns all.
func (m *Memory) ListTransactions(_ context.Context, limit int) ([]models.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]models.TransactionRecord, 0, len(m.transactions))
	for _, record := range m.transactions {
		records = append(records, record)
	}
	sortNewestFirst(records)

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *Memory) ListPendingTransactions(_ context.Context) ([]models.TransactionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []models.TransactionRecord
	for _, record := range m.transactions {
		if record.Status == models.StatusPending {
			records = append(records, record)
		}
	}
	sortNewestFirst(records)
	return records, nil
}

func (m *Memory) Close() {}

func sortNewestFirst(records []models.TransactionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Id > records[j].Id
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
}
