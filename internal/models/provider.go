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

// Provider-side transaction statuses
const (
	ProviderStatusQueued    = "QUEUED"
	ProviderStatusSubmitted = "SUBMITTED"
	ProviderStatusConfirmed = "CONFIRMED"
	ProviderStatusFailed    = "FAILED"
)

// Wallet represents a custodial wallet created by the provider
type Wallet struct {
	Address            string `json:"address"`
	SmartWalletAddress string `json:"smartWalletAddress,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// UserDetails represents the wallet bound to a session token
type UserDetails struct {
	UserId             string `json:"userId,omitempty"`
	Email              string `json:"email,omitempty"`
	Address            string `json:"address"`
	SmartWalletAddress string `json:"smartWalletAddress,omitempty"`
	CreatedAt          string `json:"createdAt,omitempty"`
}

// LoginResult is returned by the provider after a login code is verified
type LoginResult struct {
	Token              string `json:"token"`
	WalletAddress      string `json:"walletAddress"`
	SmartWalletAddress string `json:"smartWalletAddress,omitempty"`
	UserId             string `json:"userId,omitempty"`
	IsNewUser          bool   `json:"isNewUser,omitempty"`
}

// ContractCall is a single read or write call against a contract
type ContractCall struct {
	ContractAddress string `json:"contractAddress"`
	Method          string `json:"method"`
	Params          []any  `json:"params,omitempty"`
	Value           string `json:"value,omitempty"`
}

// ContractReadResult is one entry of a contract read response
type ContractReadResult struct {
	Data    any    `json:"data"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// ContractWriteResult is returned by a contract write
type ContractWriteResult struct {
	TransactionIds []string `json:"transactionIds"`
}

// ProviderTransaction represents a transaction record as the provider reports it
type ProviderTransaction struct {
	Id              string  `json:"id"`
	ChainId         string  `json:"chainId,omitempty"`
	From            string  `json:"from,omitempty"`
	TransactionHash *string `json:"transactionHash"`
	Status          string  `json:"status,omitempty"`
	CreatedAt       string  `json:"createdAt,omitempty"`
	ConfirmedAt     *string `json:"confirmedAt"`
	CancelledAt     *string `json:"cancelledAt"`
	ErrorMessage    *string `json:"errorMessage"`
}

// IsConfirmed reports whether the provider has a confirmation timestamp
func (t *ProviderTransaction) IsConfirmed() bool {
	return t.ConfirmedAt != nil && *t.ConfirmedAt != ""
}

// IsFailed reports whether the provider carries an error or a cancellation
func (t *ProviderTransaction) IsFailed() bool {
	return (t.ErrorMessage != nil && *t.ErrorMessage != "") ||
		(t.CancelledAt != nil && *t.CancelledAt != "")
}

// Pagination is the provider's page descriptor
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalCount int  `json:"totalCount,omitempty"`
	HasMore    bool `json:"hasMore,omitempty"`
}

// TransactionList is a page of provider transactions
type TransactionList struct {
	Transactions []ProviderTransaction `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

// TokenOwner is one holder of a token contract
type TokenOwner struct {
	OwnerAddress string `json:"ownerAddress"`
	Amount       string `json:"amount"`
	TokenId      string `json:"tokenId,omitempty"`
}
