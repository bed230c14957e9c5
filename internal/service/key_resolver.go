package service

import (
	"context"
	"fmt"
	"time"

	"voucher-settlement-gateway/internal/core/ports"

	"github.com/rs/zerolog"
)

// KeyResolverImpl implements ports.KeyResolver with a Redis read-through
// cache in front of the durable identity key store.
type KeyResolverImpl struct {
	keyRepo  ports.IdentityKeyRepository
	keyCache ports.KeyCache
	cacheTTL time.Duration
	log      zerolog.Logger
}

// NewKeyResolver creates a new KeyResolverImpl. keyCache may be nil, in which
// case every lookup goes to the durable store.
func NewKeyResolver(keyRepo ports.IdentityKeyRepository, keyCache ports.KeyCache, cacheTTL time.Duration, log zerolog.Logger) *KeyResolverImpl {
	return &KeyResolverImpl{
		keyRepo:  keyRepo,
		keyCache: keyCache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

// Resolve returns the key a voucher should verify against. The inline key
// wins when present: it is self-contained and needs no lookup. Cache errors
// degrade to a store lookup, never to a rejection.
func (r *KeyResolverImpl) Resolve(ctx context.Context, issuedTo string, inlineKeyHex string) (string, bool, error) {
	if inlineKeyHex != "" {
		return inlineKeyHex, true, nil
	}

	if r.keyCache != nil {
		cached, err := r.keyCache.Get(ctx, issuedTo)
		if err != nil {
			r.log.Warn().Err(err).Str("identity", issuedTo).Msg("key cache read failed, falling through to store")
		} else if cached != "" {
			return cached, true, nil
		}
	}

	record, err := r.keyRepo.Find(ctx, issuedTo)
	if err != nil {
		return "", false, fmt.Errorf("find identity key: %w", err)
	}
	if record == nil {
		return "", false, nil
	}

	if r.keyCache != nil {
		if err := r.keyCache.Set(ctx, issuedTo, record.PublicKeyHex, r.cacheTTL); err != nil {
			r.log.Warn().Err(err).Str("identity", issuedTo).Msg("key cache write failed")
		}
	}

	return record.PublicKeyHex, true, nil
}

// Provision binds verifiedKeyHex to issuedTo when no record exists yet. The
// key was already proven to match a signature over a voucher naming this
// identity, so the binding is safe for previously-unseen identities; an
// existing record is never overwritten, so a later conflicting key cannot
// displace the original.
func (r *KeyResolverImpl) Provision(ctx context.Context, issuedTo string, verifiedKeyHex string) error {
	created, err := r.keyRepo.Create(ctx, issuedTo, verifiedKeyHex)
	if err != nil {
		return fmt.Errorf("provision identity key: %w", err)
	}
	if !created {
		// A record already exists; the stored key stays authoritative and the
		// cache must not be polluted with the voucher's key.
		return nil
	}

	if r.keyCache != nil {
		if err := r.keyCache.Set(ctx, issuedTo, verifiedKeyHex, r.cacheTTL); err != nil {
			r.log.Warn().Err(err).Str("identity", issuedTo).Msg("key cache write failed after provisioning")
		}
	}

	r.log.Info().Str("identity", issuedTo).Msg("identity key auto-provisioned")
	return nil
}
