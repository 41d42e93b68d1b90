package rarity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "awardkit/adapters/memory"
	"awardkit/core"
)

type fixedUsers int

func (f fixedUsers) ActiveUserCount(context.Context) (int, error) { return int(f), nil }

func seedHolders(t *testing.T, store *mem.Store, code core.AwardCode, tier, n int) {
	t.Helper()
	now := time.Now().UTC()
	for i := 0; i < n; i++ {
		user := core.UserID(rune('a' + i))
		err := store.Create(context.Background(), core.UserAward{
			UserID: user, Code: code, Tier: tier, Title: "t", Position: 1,
			CreatedAt: now, UpdatedAt: now,
		})
		require.NoError(t, err)
	}
}

func TestUpdateSingleHolderIsFullyRare(t *testing.T) {
	store := mem.New()
	seedHolders(t, store, "critic", 1, 1)
	svc := NewService(store, fixedUsers(10), NewMemoryCache())

	pct, err := svc.Update(context.Background(), "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, pct, 1e-9)
}

func TestUpdateFiveOfTenHolders(t *testing.T) {
	store := mem.New()
	seedHolders(t, store, "critic", 1, 5)
	svc := NewService(store, fixedUsers(10), NewMemoryCache())

	pct, err := svc.Update(context.Background(), "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 60, pct, 1e-9)
}

func TestUpdateNoHoldersClampsAt100(t *testing.T) {
	svc := NewService(mem.New(), fixedUsers(10), NewMemoryCache())
	pct, err := svc.Update(context.Background(), "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, pct, 1e-9)
}

func TestUpdateEmptyPopulation(t *testing.T) {
	svc := NewService(mem.New(), fixedUsers(0), NewMemoryCache())
	pct, err := svc.Update(context.Background(), "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 100, pct, 1e-9)
}

func TestGetComputesOnMissThenServesCache(t *testing.T) {
	store := mem.New()
	seedHolders(t, store, "critic", 1, 5)
	cache := NewMemoryCache()
	svc := NewService(store, fixedUsers(10), cache)
	ctx := context.Background()

	pct, err := svc.Get(ctx, "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 60, pct, 1e-9)

	// More holders appear, but without an explicit refresh the cached value
	// stays authoritative.
	seedHolders(t, store, "critic", 2, 0)
	err = store.Create(ctx, core.UserAward{UserID: "z", Code: "critic", Tier: 1, Position: 1})
	require.NoError(t, err)

	pct, err = svc.Get(ctx, "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 60, pct, 1e-9, "no TTL: stale until explicitly refreshed")

	pct, err = svc.Update(ctx, "critic", 1)
	require.NoError(t, err)
	assert.InDelta(t, 50, pct, 1e-9)
}
