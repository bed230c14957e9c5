package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes paying users from voucher-collecting merchants.
type UserRole string

const (
	UserRoleUser     UserRole = "USER"
	UserRoleMerchant UserRole = "MERCHANT"
)

// User represents a registered account (payer or merchant).
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsMerchant returns true if the account may call merchant endpoints.
func (u *User) IsMerchant() bool {
	return u.Role == UserRoleMerchant
}
