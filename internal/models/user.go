package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the client's denormalized view of the logged-in player
type User struct {
	Id                 string `json:"id"`
	Email              string `json:"email"`
	WalletAddress      string `json:"walletAddress"`
	SmartWalletAddress string `json:"smartWalletAddress,omitempty"`
	CreatedAt          string `json:"createdAt"`
	CsrfToken          string `json:"csrfToken"`
}

// TransactionStatus is the client-side lifecycle of a transfer
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusConfirmed TransactionStatus = "confirmed"
	StatusFailed    TransactionStatus = "failed"
)

// IsTerminal reports whether no further transitions are possible
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// Transaction kinds recorded by the client
const (
	KindReward   = "reward"
	KindPenalty  = "penalty"
	KindWithdraw = "withdraw"
)

// TransactionRecord represents a locally tracked transfer
type TransactionRecord struct {
	Id              string            `json:"id"`
	Kind            string            `json:"kind"`
	TransactionHash *string           `json:"transactionHash"` // provider transaction id once known
	Amount          decimal.Decimal   `json:"amount"`          // signed, human-readable units
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	ConfirmedAt     *time.Time        `json:"confirmedAt"`
}

// TransactionUpdate is emitted when a tracked transaction reaches a terminal status
type TransactionUpdate struct {
	TransactionId string
	Status        TransactionStatus
	ConfirmedAt   *time.Time
	Err           error // set when the status was derived from a fetch failure
}
