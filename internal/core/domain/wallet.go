package domain

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's current spendable balance in minor currency units.
// Balance never goes negative; every mutation appends a BalanceMovement.
type Wallet struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovementType represents the kind of balance mutation.
type MovementType string

const (
	MovementTypeAdd     MovementType = "ADD"
	MovementTypePayment MovementType = "PAYMENT"
)

// BalanceMovement is an immutable audit record of a single balance mutation.
// The history is append-only; rows are never updated or deleted.
type BalanceMovement struct {
	ID              uuid.UUID    `json:"id"`
	WalletID        uuid.UUID    `json:"wallet_id"`
	MovementType    MovementType `json:"movement_type"`
	Amount          int64        `json:"amount"`
	PreviousBalance int64        `json:"previous_balance"`
	NewBalance      int64        `json:"new_balance"`
	MerchantID      *string      `json:"merchant_id,omitempty"` // Payment counterparty
	VoucherID       *string      `json:"voucher_id,omitempty"`  // Related voucher
	CreatedAt       time.Time    `json:"created_at"`
}
