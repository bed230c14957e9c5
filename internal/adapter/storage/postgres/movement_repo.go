package postgres

import (
	"context"
	"fmt"

	"voucher-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MovementRepo implements ports.MovementRepository. The balance_movements
// table is append-only; rows are never updated or deleted.
type MovementRepo struct {
	pool Pool
}

// NewMovementRepo creates a new MovementRepo.
func NewMovementRepo(pool Pool) *MovementRepo {
	return &MovementRepo{pool: pool}
}

// Append writes one movement row inside the caller's transaction, so the
// balance update and its history entry commit or roll back together.
func (r *MovementRepo) Append(ctx context.Context, tx pgx.Tx, m *domain.BalanceMovement) error {
	query := `INSERT INTO balance_movements (id, wallet_id, movement_type, amount, previous_balance, new_balance, merchant_id, voucher_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := tx.Exec(ctx, query,
		m.ID, m.WalletID, m.MovementType, m.Amount,
		m.PreviousBalance, m.NewBalance, m.MerchantID, m.VoucherID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert balance movement: %w", err)
	}
	return nil
}

// ListByWallet returns the most recent movements for a wallet, newest first.
func (r *MovementRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit int) ([]domain.BalanceMovement, error) {
	query := `SELECT id, wallet_id, movement_type, amount, previous_balance, new_balance, merchant_id, voucher_id, created_at
		FROM balance_movements WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, walletID, limit)
	if err != nil {
		return nil, fmt.Errorf("list balance movements: %w", err)
	}
	defer rows.Close()

	movements := make([]domain.BalanceMovement, 0, limit)
	for rows.Next() {
		var m domain.BalanceMovement
		if err := rows.Scan(
			&m.ID, &m.WalletID, &m.MovementType, &m.Amount,
			&m.PreviousBalance, &m.NewBalance, &m.MerchantID, &m.VoucherID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan balance movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance movements: %w", err)
	}

	return movements, nil
}
