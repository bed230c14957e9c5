package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"voucher-settlement-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// IdentityKeyRepo implements ports.IdentityKeyRepository. Records are
// immutable: the first key bound to an identity stays authoritative.
type IdentityKeyRepo struct {
	pool Pool
}

// NewIdentityKeyRepo creates a new IdentityKeyRepo.
func NewIdentityKeyRepo(pool Pool) *IdentityKeyRepo {
	return &IdentityKeyRepo{pool: pool}
}

// Create stores the identity -> key binding unless one already exists.
// ON CONFLICT DO NOTHING makes the existence check and the insert atomic;
// created=false means another key already holds the identity.
func (r *IdentityKeyRepo) Create(ctx context.Context, identity string, publicKeyHex string) (bool, error) {
	query := `INSERT INTO identity_keys (identity, public_key_hex, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (identity) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, identity, publicKeyHex, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("insert identity key: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Find fetches the key record for an identity, nil when none exists.
func (r *IdentityKeyRepo) Find(ctx context.Context, identity string) (*domain.IdentityKey, error) {
	query := `SELECT identity, public_key_hex, created_at FROM identity_keys WHERE identity = $1`

	k := &domain.IdentityKey{}
	err := r.pool.QueryRow(ctx, query, identity).Scan(&k.Identity, &k.PublicKeyHex, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find identity key: %w", err)
	}
	return k, nil
}
