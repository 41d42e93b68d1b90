package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mem "awardkit/adapters/memory"
	"awardkit/catalog"
	"awardkit/core"
	"awardkit/engine"
	req "awardkit/requirements"
)

// finisherLadder is a removable two-tier ladder on finished playlist levels:
// tier 1 at 5 finished, tier 2 at 25.
func finisherLadder() []catalog.Spec {
	return []catalog.Spec{
		{Code: "explorer", Tier: 1, Position: 1, Title: "Explorer I", CanBeRemoved: true,
			Requirement: req.PlaylistFinished{Min: 5}},
		{Code: "explorer", Tier: 2, Position: 1, Title: "Explorer II", CanBeRemoved: true,
			Requirement: req.PlaylistFinished{Min: 25}},
	}
}

// stickyLadder mirrors finisherLadder but non-removable.
func stickyLadder() []catalog.Spec {
	specs := finisherLadder()
	for i := range specs {
		specs[i].Code = "veteran"
		specs[i].CanBeRemoved = false
	}
	return specs
}

func finishedEntries(n int) []mem.PlaylistEntry {
	out := make([]mem.PlaylistEntry, n)
	for i := range out {
		out[i] = mem.PlaylistEntry{Status: mem.PlaylistFinished, LevelRatingPosition: 3}
	}
	return out
}

type fixture struct {
	store    *mem.Store
	activity *mem.ActivitySource
	svc      *engine.AwardService
	events   []core.Event
	mu       sync.Mutex
}

func newFixture(t *testing.T, specs []catalog.Spec) *fixture {
	t.Helper()
	cat, err := catalog.New(specs)
	require.NoError(t, err)
	f := &fixture{store: mem.New(), activity: mem.NewActivitySource()}
	bus := engine.NewEventBus(engine.DispatchSync)
	f.svc = engine.NewAwardService(f.store, f.activity, cat, bus, nil)
	for _, typ := range []core.EventType{
		core.EventAwardGranted, core.EventAwardUpgraded,
		core.EventAwardDowngraded, core.EventAwardRevoked,
	} {
		bus.Subscribe(typ, func(_ context.Context, e core.Event) {
			f.mu.Lock()
			f.events = append(f.events, e)
			f.mu.Unlock()
		})
	}
	return f
}

func (f *fixture) eventTypes() []core.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]core.EventType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

func TestUpdateAwardsGrant(t *testing.T) {
	f := newFixture(t, finisherLadder())
	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	a, err := f.store.Get(ctx, "lara", "explorer")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Tier)
	assert.Equal(t, "Explorer I", a.Title)
	assert.Equal(t, []core.EventType{core.EventAwardGranted}, f.eventTypes())
}

func TestUpdateAwardsNoopWhenIneligible(t *testing.T) {
	f := newFixture(t, finisherLadder())
	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(2)})
	ctx := context.Background()

	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	_, err := f.store.Get(ctx, "lara", "explorer")
	assert.True(t, errors.Is(err, core.ErrNotFound))
	assert.Empty(t, f.eventTypes())
}

func TestUpdateAwardsUpgrade(t *testing.T) {
	f := newFixture(t, finisherLadder())
	ctx := context.Background()

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	a, err := f.store.Get(ctx, "lara", "explorer")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Tier)
	assert.Equal(t, "Explorer II", a.Title)
	assert.Equal(t, []core.EventType{core.EventAwardGranted, core.EventAwardUpgraded}, f.eventTypes())
}

func TestUpdateAwardsIdempotent(t *testing.T) {
	f := newFixture(t, finisherLadder())
	ctx := context.Background()
	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})

	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))
	first, err := f.store.Get(ctx, "lara", "explorer")
	require.NoError(t, err)

	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))
	second, err := f.store.Get(ctx, "lara", "explorer")
	require.NoError(t, err)

	assert.Equal(t, first, second, "second run with unchanged activity must not touch the row")
	assert.Equal(t, []core.EventType{core.EventAwardGranted}, f.eventTypes())
}

func TestUpdateAwardsDowngradeRemovable(t *testing.T) {
	f := newFixture(t, finisherLadder())
	ctx := context.Background()

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	a, err := f.store.Get(ctx, "lara", "explorer")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Tier)
	assert.Equal(t, []core.EventType{core.EventAwardGranted, core.EventAwardDowngraded}, f.eventTypes())
}

func TestUpdateAwardsRevokeRemovable(t *testing.T) {
	f := newFixture(t, finisherLadder())
	ctx := context.Background()

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	f.activity.Set("lara", mem.UserActivity{})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	_, err := f.store.Get(ctx, "lara", "explorer")
	assert.True(t, errors.Is(err, core.ErrNotFound), "removable award must be revoked entirely")
	assert.Equal(t, []core.EventType{core.EventAwardGranted, core.EventAwardRevoked}, f.eventTypes())
}

func TestUpdateAwardsStickyNeverDowngrades(t *testing.T) {
	f := newFixture(t, stickyLadder())
	ctx := context.Background()

	f.activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	f.activity.Set("lara", mem.UserActivity{})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))

	a, err := f.store.Get(ctx, "lara", "veteran")
	require.NoError(t, err)
	assert.Equal(t, 2, a.Tier, "non-removable award keeps its tier after eligibility is lost")
	assert.Equal(t, []core.EventType{core.EventAwardGranted}, f.eventTypes())
}

// conflictStore wraps the memory store and forces the first n Create calls
// to report a uniqueness conflict, simulating a concurrent grant landing
// between eligibility evaluation and insert.
type conflictStore struct {
	*mem.Store
	mu        sync.Mutex
	conflicts int
	creates   int
}

func (c *conflictStore) Create(ctx context.Context, award core.UserAward) error {
	c.mu.Lock()
	c.creates++
	force := c.conflicts > 0
	if force {
		c.conflicts--
	}
	c.mu.Unlock()
	if force {
		// The concurrent winner's row exists by the time we retry.
		_ = c.Store.Create(ctx, award)
		return core.ErrConflict
	}
	return c.Store.Create(ctx, award)
}

func TestUpdateAwardsRetriesInsertConflictOnce(t *testing.T) {
	cat, err := catalog.New(finisherLadder())
	require.NoError(t, err)
	store := &conflictStore{Store: mem.New(), conflicts: 1}
	activity := mem.NewActivitySource()
	activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	svc := engine.NewAwardService(store, activity, cat, engine.NewEventBus(engine.DispatchSync), nil)

	require.NoError(t, svc.UpdateAwards(context.Background(), "lara", false))

	a, err := store.Get(context.Background(), "lara", "explorer")
	require.NoError(t, err)
	assert.Equal(t, 1, a.Tier)
	assert.Equal(t, 1, store.creates, "exactly one insert attempt before falling back to update")
}

// brokenStore conflicts on Create and fails the follow-up Update too.
type brokenStore struct {
	*mem.Store
}

func (b *brokenStore) Create(context.Context, core.UserAward) error { return core.ErrConflict }
func (b *brokenStore) Update(context.Context, core.UserAward) error {
	return errors.New("row vanished")
}

func TestUpdateAwardsSecondConflictPropagates(t *testing.T) {
	cat, err := catalog.New(finisherLadder())
	require.NoError(t, err)
	activity := mem.NewActivitySource()
	activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	svc := engine.NewAwardService(&brokenStore{Store: mem.New()}, activity, cat, engine.NewEventBus(engine.DispatchSync), nil)

	err = svc.UpdateAwards(context.Background(), "lara", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after conflict")
}

func TestUpdateAwardsConcurrentFirstGrant(t *testing.T) {
	cat, err := catalog.New(finisherLadder())
	require.NoError(t, err)
	store := mem.New()
	activity := mem.NewActivitySource()
	activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})
	svc := engine.NewAwardService(store, activity, cat, engine.NewEventBus(engine.DispatchSync), nil)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.UpdateAwards(context.Background(), "lara", false)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	awards, err := store.ListByUser(context.Background(), "lara")
	require.NoError(t, err)
	require.Len(t, awards, 1, "concurrent grants must converge to a single row")
	assert.Equal(t, 2, awards[0].Tier)
}

type rarityRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *rarityRecorder) Update(_ context.Context, code core.AwardCode, tier int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, string(code)+"/"+string(rune('0'+tier)))
	return 100, nil
}

func TestUpdateAwardsRefreshesRarityOnChange(t *testing.T) {
	cat, err := catalog.New(finisherLadder())
	require.NoError(t, err)
	store := mem.New()
	activity := mem.NewActivitySource()
	rec := &rarityRecorder{}
	svc := engine.NewAwardService(store, activity, cat, engine.NewEventBus(engine.DispatchSync), rec)
	ctx := context.Background()

	activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(7)})
	require.NoError(t, svc.UpdateAwards(ctx, "lara", true))
	assert.Equal(t, []string{"explorer/1"}, rec.calls)

	// Unchanged eligibility: no rarity refresh.
	require.NoError(t, svc.UpdateAwards(ctx, "lara", true))
	assert.Equal(t, []string{"explorer/1"}, rec.calls)

	// updateRarity off: change applies without a refresh.
	activity.Set("lara", mem.UserActivity{Playlist: finishedEntries(30)})
	require.NoError(t, svc.UpdateAwards(ctx, "lara", false))
	assert.Equal(t, []string{"explorer/1"}, rec.calls)
}

func TestUpdateAwardsOneShotGrant(t *testing.T) {
	oneShot := []catalog.Spec{{
		Code: "pioneer", Tier: 0, Position: 1, Title: "Pioneer", CanBeRemoved: true,
		Requirement: req.JoinedBetween{
			From: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}}
	f := newFixture(t, oneShot)
	ctx := context.Background()

	f.activity.Set("lara", mem.UserActivity{Profile: core.Profile{
		JoinedAt: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Active: true,
	}})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))
	a, err := f.store.Get(ctx, "lara", "pioneer")
	require.NoError(t, err)
	assert.Equal(t, 0, a.Tier)

	// Ban revokes the removable one-shot.
	f.activity.Set("lara", mem.UserActivity{Profile: core.Profile{
		JoinedAt: time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), Active: true, Banned: true,
	}})
	require.NoError(t, f.svc.UpdateAwards(ctx, "lara", false))
	_, err = f.store.Get(ctx, "lara", "pioneer")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
