package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewKeyCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "payer-1", "02abcd", time.Hour)
	require.NoError(t, err)

	key, err := cache.Get(ctx, "payer-1")
	require.NoError(t, err)
	assert.Equal(t, "02abcd", key)
}

func TestKeyCache_Get_Miss(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewKeyCache(client)

	key, err := cache.Get(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, key, "cache miss should return empty string, not an error")
}

func TestKeyCache_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewKeyCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "payer-1", "02abcd", time.Second))

	s.FastForward(2 * time.Second)

	key, err := cache.Get(ctx, "payer-1")
	require.NoError(t, err)
	assert.Empty(t, key)
}
