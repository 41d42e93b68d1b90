package rediscache

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient spins up a miniredis server and returns a client plus cleanup.
func newTestClient(t *testing.T) (*redis.Client, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}
	return client, cleanup
}

func TestCacheMiss(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	cache := NewWithClient(client)
	_, ok, err := cache.Get(context.Background(), "critic", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheSetGet(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	cache := NewWithClient(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "critic", 2, 73.5))

	pct, ok, err := cache.Get(ctx, "critic", 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 73.5, pct, 1e-9)

	// Tiers are cached independently.
	_, ok, err = cache.Get(ctx, "critic", 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheEntriesHaveNoTTL(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	cache := NewWithClient(client)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "pioneer", 0, 100))

	ttl, err := client.TTL(ctx, rarityKey("pioneer", 0)).Result()
	require.NoError(t, err)
	assert.Less(t, int64(ttl), int64(0), "a persisted key reports a negative TTL")
}

func TestCacheOverwrite(t *testing.T) {
	client, cleanup := newTestClient(t)
	defer cleanup()

	cache := NewWithClient(client)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "explorer", 1, 90))
	require.NoError(t, cache.Set(ctx, "explorer", 1, 45))

	pct, ok, err := cache.Get(ctx, "explorer", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 45, pct, 1e-9)
}
