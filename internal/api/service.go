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

package api

import (
	"context"

	"token-rush-go/internal/models"
	"token-rush-go/internal/session"
	"token-rush-go/internal/transfer"
)

// TransferService is the game's token workflow as the HTTP layer sees it
type TransferService interface {
	SendCode(ctx context.Context, email string) error
	Login(ctx context.Context, email, code string) (*transfer.LoginSession, error)
	CreateUser(ctx context.Context, username string) (*models.User, error)
	Reward(ctx context.Context, authToken string, data *models.GameSessionData) (*models.TransferResult, error)
	Penalty(ctx context.Context, authToken string) (*models.TransferResult, error)
	Withdraw(ctx context.Context, authToken, recipient string) (*models.TransferResult, error)
	PlayerBalance(ctx context.Context, address string) (string, error)
	TreasuryBalance(ctx context.Context) (string, error)
	Transaction(ctx context.Context, transactionId string) (*models.ProviderTransaction, error)
	Transactions(ctx context.Context, page, limit int) (*models.TransactionList, error)
	Leaderboard(ctx context.Context) ([]models.TokenOwner, error)
}

var _ TransferService = (*transfer.Service)(nil)

// GameService serves the game API. It holds no per-user state; sessions live
// in cookies and balances on chain.
type GameService struct {
	transfers TransferService
	guard     *session.Guard
}

func NewGameService(transfers TransferService, guard *session.Guard) *GameService {
	return &GameService{
		transfers: transfers,
		guard:     guard,
	}
}
