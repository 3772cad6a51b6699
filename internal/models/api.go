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

package models

// SendCodeRequest asks the provider to email a login code
type SendCodeRequest struct {
	Email string `json:"email"`
}

// SendCodeResponse is returned once the login code is on its way
type SendCodeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// VerifyCodeRequest exchanges an emailed code for a session
type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// VerifyCodeResponse carries the logged-in user
type VerifyCodeResponse struct {
	User User `json:"user"`
}

// GameSessionData is the client-reported timing of a hit, in unix milliseconds
type GameSessionData struct {
	GameStartTime int64 `json:"gameStartTime"`
	TargetHitTime int64 `json:"targetHitTime"`
}

// RewardRequest is the body of a reward call
type RewardRequest struct {
	GameSessionData *GameSessionData `json:"gameSessionData,omitempty"`
}

// CreateUserRequest is the body of a wallet provisioning call
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateUserResponse carries the user bound to the new wallet
type CreateUserResponse struct {
	User User `json:"user"`
}

// WithdrawRequest is the body of a withdraw call
type WithdrawRequest struct {
	RecipientAddress string `json:"recipientAddress"`
}

// TransferResult is returned by reward, penalty and withdraw.
// ActualAmount is only set for penalties.
type TransferResult struct {
	TransactionIds []string `json:"transactionIds"`
	Amount         string   `json:"amount"`
	ActualAmount   string   `json:"actualAmount,omitempty"`
}

// BalanceResponse carries a raw base-unit balance
type BalanceResponse struct {
	Balance string `json:"balance"`
}

// TransactionResponse wraps a single provider transaction
type TransactionResponse struct {
	Result *ProviderTransaction `json:"result"`
}

// TransactionsResponse wraps a page of provider transactions
type TransactionsResponse struct {
	Transactions *TransactionList `json:"transactions"`
}

// LeaderboardResponse carries the top token owners
type LeaderboardResponse struct {
	Owners []TokenOwner `json:"owners"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}
