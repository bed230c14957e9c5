package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Voucher Repo ---

type inMemoryVoucherRepo struct {
	mu       sync.RWMutex
	vouchers map[string]*domain.Voucher
	order    []string // insertion order, newest last
}

func newInMemoryVoucherRepo() *inMemoryVoucherRepo {
	return &inMemoryVoucherRepo{vouchers: make(map[string]*domain.Voucher)}
}

func (r *inMemoryVoucherRepo) Insert(ctx context.Context, v *domain.Voucher) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.vouchers[v.VoucherID]; exists {
		return false, nil
	}
	stored := *v
	r.vouchers[v.VoucherID] = &stored
	r.order = append(r.order, v.VoucherID)
	return true, nil
}

func (r *inMemoryVoucherRepo) GetByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vouchers[voucherID]
	if !ok {
		return nil, nil
	}
	copied := *v
	return &copied, nil
}

func (r *inMemoryVoucherRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.vouchers)), nil
}

func (r *inMemoryVoucherRepo) ListByMerchant(ctx context.Context, params ports.VoucherListParams) ([]domain.Voucher, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.Voucher
	// Newest first
	for i := len(r.order) - 1; i >= 0; i-- {
		v := r.vouchers[r.order[i]]
		if v.MerchantID != params.MerchantID {
			continue
		}
		if params.IssuedTo != nil && v.IssuedTo != *params.IssuedTo {
			continue
		}
		matched = append(matched, *v)
	}

	total := int64(len(matched))
	offset := (params.Page - 1) * params.PageSize
	if offset >= len(matched) {
		return []domain.Voucher{}, total, nil
	}
	end := offset + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *inMemoryVoucherRepo) GetStats(ctx context.Context, merchantID string) (*ports.SettlementStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ports.SettlementStats{}
	payers := make(map[string]struct{})
	for _, v := range r.vouchers {
		if v.MerchantID != merchantID {
			continue
		}
		stats.TotalVouchers++
		stats.TotalAmount += v.Amount
		payers[v.IssuedTo] = struct{}{}
	}
	stats.UniquePayers = int64(len(payers))
	return stats, nil
}

// --- In-Memory Identity Key Repo ---

type inMemoryIdentityKeyRepo struct {
	mu   sync.RWMutex
	keys map[string]*domain.IdentityKey
}

func newInMemoryIdentityKeyRepo() *inMemoryIdentityKeyRepo {
	return &inMemoryIdentityKeyRepo{keys: make(map[string]*domain.IdentityKey)}
}

func (r *inMemoryIdentityKeyRepo) Create(ctx context.Context, identity string, publicKeyHex string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.keys[identity]; exists {
		return false, nil
	}
	r.keys[identity] = &domain.IdentityKey{
		Identity:     identity,
		PublicKeyHex: publicKeyHex,
		CreatedAt:    time.Now().UTC(),
	}
	return true, nil
}

func (r *inMemoryIdentityKeyRepo) Find(ctx context.Context, identity string) (*domain.IdentityKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	k, ok := r.keys[identity]
	if !ok {
		return nil, nil
	}
	copied := *k
	return &copied, nil
}

// --- In-Memory Wallet Repo ---

type inMemoryWalletRepo struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*domain.Wallet // by wallet ID
	byUser  map[uuid.UUID]uuid.UUID      // user ID -> wallet ID
}

func newInMemoryWalletRepo() *inMemoryWalletRepo {
	return &inMemoryWalletRepo{
		wallets: make(map[uuid.UUID]*domain.Wallet),
		byUser:  make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *inMemoryWalletRepo) Create(ctx context.Context, wallet *domain.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *wallet
	r.wallets[wallet.ID] = &stored
	r.byUser[wallet.UserID] = wallet.ID
	return nil
}

func (r *inMemoryWalletRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	walletID, ok := r.byUser[userID]
	if !ok {
		return nil, nil
	}
	copied := *r.wallets[walletID]
	return &copied, nil
}

func (r *inMemoryWalletRepo) GetByUserIDForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *inMemoryWalletRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found")
	}
	w.Balance = newBalance
	w.UpdatedAt = time.Now().UTC()
	return nil
}

// --- In-Memory Movement Repo ---

type inMemoryMovementRepo struct {
	mu        sync.RWMutex
	movements map[uuid.UUID][]domain.BalanceMovement // by wallet ID, oldest first
}

func newInMemoryMovementRepo() *inMemoryMovementRepo {
	return &inMemoryMovementRepo{movements: make(map[uuid.UUID][]domain.BalanceMovement)}
}

func (r *inMemoryMovementRepo) Append(ctx context.Context, tx pgx.Tx, m *domain.BalanceMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements[m.WalletID] = append(r.movements[m.WalletID], *m)
	return nil
}

func (r *inMemoryMovementRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.BalanceMovement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := r.movements[walletID]
	// Newest first
	result := make([]domain.BalanceMovement, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, all[i])
	}
	return result, nil
}

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return fmt.Errorf("username already exists")
		}
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

// --- In-Memory Transactor ---

// inMemoryTransactor serializes all transactions behind one mutex, standing in
// for the row-level FOR UPDATE locking the real store provides. Begin blocks
// until the previous transaction commits or rolls back.
type inMemoryTransactor struct {
	mu sync.Mutex
}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &lockTx{mu: &t.mu}, nil
}

// lockTx holds the transactor's mutex until Commit or Rollback, whichever
// comes first.
type lockTx struct {
	mu       *sync.Mutex
	released bool
}

func (t *lockTx) release() {
	if !t.released {
		t.released = true
		t.mu.Unlock()
	}
}

func (t *lockTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *lockTx) Commit(ctx context.Context) error          { t.release(); return nil }
func (t *lockTx) Rollback(ctx context.Context) error        { t.release(); return nil }
func (t *lockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *lockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *lockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *lockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *lockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *lockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *lockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *lockTx) Conn() *pgx.Conn { return nil }
