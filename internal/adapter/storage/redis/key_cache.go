package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// KeyCache implements ports.KeyCache using Redis. It sits in front of the
// identity key store; a cache miss or error always falls back to Postgres.
type KeyCache struct {
	client *goredis.Client
	prefix string
}

// NewKeyCache creates a new Redis-backed identity key cache.
func NewKeyCache(client *goredis.Client) *KeyCache {
	return &KeyCache{
		client: client,
		prefix: "identitykey:",
	}
}

// Get retrieves a cached public key by identity.
// Returns "", nil if the identity is not cached.
func (c *KeyCache) Get(ctx context.Context, identity string) (string, error) {
	val, err := c.client.Get(ctx, c.prefix+identity).Result()
	if err != nil {
		if err == goredis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("redis key cache get: %w", err)
	}
	return val, nil
}

// Set stores a public key in the cache with TTL.
func (c *KeyCache) Set(ctx context.Context, identity string, publicKeyHex string, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+identity, publicKeyHex, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis key cache set: %w", err)
	}
	return nil
}
