package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DedupCache implements ports.DedupCache using Redis SET NX. It is a fast
// path in front of the settlement ledger's uniqueness constraint, never a
// replacement for it.
type DedupCache struct {
	client *goredis.Client
	prefix string
}

// NewDedupCache creates a new Redis-backed voucher dedup cache.
func NewDedupCache(client *goredis.Client) *DedupCache {
	return &DedupCache{
		client: client,
		prefix: "voucher:",
	}
}

// MarkIfNew atomically records the voucher ID.
// Returns true if the voucher was not seen before, false on a repeat.
func (c *DedupCache) MarkIfNew(ctx context.Context, voucherID string, ttl time.Duration) (bool, error) {
	result, err := c.client.SetArgs(ctx, c.prefix+voucherID, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — voucher was already seen
			return false, nil
		}
		return false, fmt.Errorf("redis dedup mark: %w", err)
	}
	return result == "OK", nil
}

// Release drops the mark after a failed ledger insert so a retry of the same
// voucher is not misreported as a duplicate.
func (c *DedupCache) Release(ctx context.Context, voucherID string) error {
	if err := c.client.Del(ctx, c.prefix+voucherID).Err(); err != nil {
		return fmt.Errorf("redis dedup release: %w", err)
	}
	return nil
}
