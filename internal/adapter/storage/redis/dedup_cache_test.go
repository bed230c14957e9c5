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

func TestDedupCache_MarkIfNew_FirstMark(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewDedupCache(client)

	isNew, err := cache.MarkIfNew(context.Background(), "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)
}

func TestDedupCache_MarkIfNew_Repeat(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewDedupCache(client)
	ctx := context.Background()

	isNew, err := cache.MarkIfNew(ctx, "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = cache.MarkIfNew(ctx, "v1", time.Hour)
	require.NoError(t, err)
	assert.False(t, isNew, "repeated voucher should not mark as new")
}

func TestDedupCache_Release_AllowsRemark(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewDedupCache(client)
	ctx := context.Background()

	isNew, err := cache.MarkIfNew(ctx, "v1", time.Hour)
	require.NoError(t, err)
	require.True(t, isNew)

	require.NoError(t, cache.Release(ctx, "v1"))

	isNew, err = cache.MarkIfNew(ctx, "v1", time.Hour)
	require.NoError(t, err)
	assert.True(t, isNew, "released voucher should mark as new again")
}

func TestDedupCache_MarkIfNew_Expiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewDedupCache(client)
	ctx := context.Background()

	isNew, err := cache.MarkIfNew(ctx, "v1", time.Second)
	require.NoError(t, err)
	require.True(t, isNew)

	s.FastForward(2 * time.Second)

	isNew, err = cache.MarkIfNew(ctx, "v1", time.Second)
	require.NoError(t, err)
	assert.True(t, isNew, "expired mark defers back to the ledger")
}
