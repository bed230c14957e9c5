package ports

import (
	"context"
	"time"

	"voucher-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
)

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

// PayloadBuilder reconstructs the exact byte sequence the payer signed.
// Pure and deterministic: same fields in, same bytes out, always.
type PayloadBuilder interface {
	Build(voucherID, merchantID string, amount int64, createdAt, issuedTo string) []byte
}

// SignatureVerifier checks a DER-encoded ECDSA signature over the SHA-256
// digest of a canonical payload, against a hex-encoded secp256k1 public key.
// Implementations hold no mutable state and are safe for concurrent use.
type SignatureVerifier interface {
	// Verify returns nil when the signature is valid. Failure modes are
	// distinguished: ErrMalformedPublicKey, ErrMalformedSignature, and
	// ErrSignatureMismatch.
	Verify(payload []byte, publicKeyHex string, signatureHex string) error
}

// KeyResolver obtains the public key a voucher should verify against and
// auto-provisions identity key records after successful verification.
type KeyResolver interface {
	// Resolve prefers the voucher's inline key, then the stored record for
	// the identity. Returns "", false when no key is available.
	Resolve(ctx context.Context, issuedTo string, inlineKeyHex string) (keyHex string, found bool, err error)
	// Provision binds the verified key to a previously unseen identity.
	// Existing records are never overwritten.
	Provision(ctx context.Context, issuedTo string, verifiedKeyHex string) error
}

// KeyCache is the Redis read-through layer in front of the identity key store.
type KeyCache interface {
	Get(ctx context.Context, identity string) (string, error) // "" when absent
	Set(ctx context.Context, identity string, publicKeyHex string, ttl time.Duration) error
}

// DedupCache is the Redis fast-path duplicate check for voucher IDs. It is an
// optimization only; the settlement ledger's uniqueness constraint stays
// authoritative.
type DedupCache interface {
	// MarkIfNew atomically records the voucher ID, returning true if it was
	// not seen before.
	MarkIfNew(ctx context.Context, voucherID string, ttl time.Duration) (bool, error)
	// Release drops the mark so a voucher whose ledger insert failed can be
	// retried. Best-effort.
	Release(ctx context.Context, voucherID string) error
}

// --- Service Ports (Business Logic) ---

// SettlementService drives voucher batches through verification and the
// atomic ledger admission, with partial-failure semantics.
type SettlementService interface {
	SyncBatch(ctx context.Context, req SyncBatchRequest) (*domain.BatchResult, error)
}

// SyncBatchRequest is the validated input for a settlement batch.
type SyncBatchRequest struct {
	MerchantID string
	Vouchers   []VoucherInput
}

// VoucherInput is one voucher as uploaded by the merchant device.
type VoucherInput struct {
	VoucherID    string
	MerchantID   string
	Amount       int64
	CreatedAt    string
	IssuedTo     string
	Signature    string // Hex-encoded DER
	PublicKeyHex string // Optional inline key
}

// BalanceService applies credit/debit operations against one identity's
// wallet. Voucher settlement never calls it; balance movement is a separate,
// explicit wallet operation.
type BalanceService interface {
	Credit(ctx context.Context, userID uuid.UUID, amount int64) (*domain.Wallet, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int64, pctx PaymentContext) (*domain.Wallet, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (*domain.Wallet, []domain.BalanceMovement, error)
}

// PaymentContext carries the counterparty details recorded with a debit.
type PaymentContext struct {
	MerchantID string
	VoucherID  string
}

// AuthService defines account registration and login.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for account registration.
type RegisterRequest struct {
	Username string
	Password string
	Role     domain.UserRole
}

// ReportingService defines merchant-facing settlement reporting.
type ReportingService interface {
	ListVouchers(ctx context.Context, params VoucherListParams) ([]domain.Voucher, int64, error)
	GetStats(ctx context.Context, merchantID string) (*SettlementStats, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.UserRole) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

// AuditService records audited actions asynchronously.
type AuditService interface {
	Record(ctx context.Context, log *domain.AuditLog)
}
