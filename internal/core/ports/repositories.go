package ports

import (
	"context"

	"voucher-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks

// VoucherRepository is the permanent settlement ledger. Admission and the
// voucher_id uniqueness check are one atomic operation: Insert reports a
// conflict instead of admitting a second time, so two racing batches can never
// both admit the same voucher.
type VoucherRepository interface {
	// Insert atomically admits a voucher. Returns admitted=false with a nil
	// error when the voucher_id already exists; a non-nil error is an
	// infrastructure failure, not a duplicate.
	Insert(ctx context.Context, v *domain.Voucher) (admitted bool, err error)
	GetByID(ctx context.Context, voucherID string) (*domain.Voucher, error)
	Count(ctx context.Context) (int64, error)
	// Reporting queries
	ListByMerchant(ctx context.Context, params VoucherListParams) ([]domain.Voucher, int64, error)
	GetStats(ctx context.Context, merchantID string) (*SettlementStats, error)
}

// VoucherListParams holds filter + pagination for listing settled vouchers.
type VoucherListParams struct {
	MerchantID string
	IssuedTo   *string
	Page       int
	PageSize   int
}

// SettlementStats holds aggregated settlement figures for a merchant.
type SettlementStats struct {
	TotalVouchers int64
	TotalAmount   int64
	UniquePayers  int64
}

// IdentityKeyRepository persists identity -> public key bindings. Keys are
// immutable once written; Create must not overwrite an existing record.
type IdentityKeyRepository interface {
	// Create stores the binding unless one already exists; an existing
	// record is left untouched. Returns created=false on conflict.
	Create(ctx context.Context, identity string, publicKeyHex string) (created bool, err error)
	Find(ctx context.Context, identity string) (*domain.IdentityKey, error)
}

// WalletRepository defines persistence operations for balance wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic
// locking of a single identity's balance.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error)
	GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error
}

// MovementRepository appends to the immutable balance movement history.
type MovementRepository interface {
	Append(ctx context.Context, tx pgx.Tx, m *domain.BalanceMovement) error
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.BalanceMovement, error)
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// AuditRepository persists audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
