package postgres

import (
	"context"
	"errors"
	"fmt"

	"voucher-settlement-gateway/internal/core/domain"
	"voucher-settlement-gateway/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// VoucherRepo implements ports.VoucherRepository against the vouchers table.
type VoucherRepo struct {
	pool Pool
}

// NewVoucherRepo creates a new VoucherRepo.
func NewVoucherRepo(pool Pool) *VoucherRepo {
	return &VoucherRepo{pool: pool}
}

// Insert admits a voucher into the settlement ledger. The uniqueness check and
// the insert are a single statement: ON CONFLICT DO NOTHING reports a duplicate
// through RowsAffected instead of an error, so two racing submissions of the
// same voucher_id produce exactly one admission.
func (r *VoucherRepo) Insert(ctx context.Context, v *domain.Voucher) (bool, error) {
	query := `INSERT INTO vouchers (voucher_id, merchant_id, amount, created_at_raw, issued_to, public_key_hex, signature, status, synced_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (voucher_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		v.VoucherID, v.MerchantID, v.Amount, v.CreatedAtRaw,
		v.IssuedTo, v.PublicKeyHex, v.Signature, v.Status, v.SyncedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert voucher: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID fetches a settled voucher by its merchant-assigned ID.
func (r *VoucherRepo) GetByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	query := `SELECT voucher_id, merchant_id, amount, created_at_raw, issued_to, public_key_hex, signature, status, synced_at
		FROM vouchers WHERE voucher_id = $1`

	v := &domain.Voucher{}
	err := r.pool.QueryRow(ctx, query, voucherID).Scan(
		&v.VoucherID, &v.MerchantID, &v.Amount, &v.CreatedAtRaw,
		&v.IssuedTo, &v.PublicKeyHex, &v.Signature, &v.Status, &v.SyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher by id: %w", err)
	}
	return v, nil
}

// Count returns the total number of settled vouchers across all merchants.
func (r *VoucherRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM vouchers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count vouchers: %w", err)
	}
	return count, nil
}

// ListByMerchant returns one page of a merchant's settled vouchers, most
// recently synced first, plus the total match count.
func (r *VoucherRepo) ListByMerchant(ctx context.Context, params ports.VoucherListParams) ([]domain.Voucher, int64, error) {
	where := `WHERE merchant_id = $1`
	args := []any{params.MerchantID}
	if params.IssuedTo != nil {
		where += ` AND issued_to = $2`
		args = append(args, *params.IssuedTo)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM vouchers ` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count merchant vouchers: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	listQuery := fmt.Sprintf(`SELECT voucher_id, merchant_id, amount, created_at_raw, issued_to, public_key_hex, signature, status, synced_at
		FROM vouchers %s ORDER BY synced_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list merchant vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0, params.PageSize)
	for rows.Next() {
		var v domain.Voucher
		if err := rows.Scan(
			&v.VoucherID, &v.MerchantID, &v.Amount, &v.CreatedAtRaw,
			&v.IssuedTo, &v.PublicKeyHex, &v.Signature, &v.Status, &v.SyncedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate vouchers: %w", err)
	}

	return vouchers, total, nil
}

// GetStats returns aggregate settlement figures for one merchant.
func (r *VoucherRepo) GetStats(ctx context.Context, merchantID string) (*ports.SettlementStats, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(amount), 0), COUNT(DISTINCT issued_to)
		FROM vouchers WHERE merchant_id = $1`

	stats := &ports.SettlementStats{}
	err := r.pool.QueryRow(ctx, query, merchantID).Scan(
		&stats.TotalVouchers, &stats.TotalAmount, &stats.UniquePayers,
	)
	if err != nil {
		return nil, fmt.Errorf("get settlement stats: %w", err)
	}
	return stats, nil
}
