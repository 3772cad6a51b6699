/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package store

import (
	"context"
	"errors"
	"time"

	"token-rush-go/internal/models"

	"github.com/shopspring/decimal"
)

var (
	ErrNoCurrentUser        = errors.New("no user is logged in")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrAlreadyTerminal      = errors.New("transaction already in a terminal status")
)

// UserStore persists the logged-in player between runs of the client.
type UserStore interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, user models.User) error
	ClearCurrentUser(ctx context.Context) error
}

// TransactionStore keeps the client's local transfer history. Records are
// created pending and move at most once to confirmed or failed.
type TransactionStore interface {
	AddTransaction(ctx context.Context, record models.TransactionRecord) error
	SetTransactionHash(ctx context.Context, id, hash string) error
	SetTransactionAmount(ctx context.Context, id string, amount decimal.Decimal) error
	UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus, confirmedAt *time.Time) error
	GetTransaction(ctx context.Context, id string) (*models.TransactionRecord, error)
	ListTransactions(ctx context.Context, limit int) ([]models.TransactionRecord, error)
	ListPendingTransactions(ctx context.Context) ([]models.TransactionRecord, error)
}

// ProfileStore is everything the terminal client persists. Implemented in
// memory and by the SQLite database service.
type ProfileStore interface {
	UserStore
	TransactionStore

	Close()
}
