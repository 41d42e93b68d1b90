// Package awards is the batteries-included facade: it assembles the engine,
// catalogue, event bus, rarity service and realtime bridge behind a single
// functional-options constructor.
package awards

import (
	"context"

	mem "awardkit/adapters/memory"
	"awardkit/catalog"
	"awardkit/core"
	"awardkit/engine"
	"awardkit/rarity"
	"awardkit/realtime"
)

// Option configures the awards service builder.
type Option func(*config)

type config struct {
	store    engine.AwardStore
	activity engine.ActivitySource
	users    rarity.UserCounter
	cat      *catalog.Catalog
	cache    rarity.Cache
	mode     engine.DispatchMode
	hub      *realtime.Hub
}

// WithStore sets the persistence adapter.
func WithStore(s engine.AwardStore) Option { return func(c *config) { c.store = s } }

// WithActivity sets the activity snapshot source. If it also implements
// rarity.UserCounter it doubles as the rarity denominator source.
func WithActivity(a engine.ActivitySource) Option {
	return func(c *config) {
		c.activity = a
		if u, ok := a.(rarity.UserCounter); ok {
			c.users = u
		}
	}
}

// WithUserCounter overrides the active-user population source used for rarity.
func WithUserCounter(u rarity.UserCounter) Option { return func(c *config) { c.users = u } }

// WithCatalog sets the award catalogue.
func WithCatalog(cat catalog.Catalog) Option { return func(c *config) { c.cat = &cat } }

// WithRarityCache sets the rarity cache backend.
func WithRarityCache(cache rarity.Cache) Option { return func(c *config) { c.cache = cache } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// New builds a configured AwardService with its rarity service. Defaults:
//   - store and activity: in-memory
//   - catalog: catalog.Default()
//   - rarity cache: in-memory
//   - dispatch: async
func New(opts ...Option) (*engine.AwardService, *rarity.Service) {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.store == nil {
		cfg.store = mem.New()
	}
	if cfg.activity == nil {
		src := mem.NewActivitySource()
		cfg.activity = src
		if cfg.users == nil {
			cfg.users = src
		}
	}
	if cfg.cat == nil {
		def := catalog.Default()
		cfg.cat = &def
	}
	if cfg.cache == nil {
		cfg.cache = rarity.NewMemoryCache()
	}

	var rar *rarity.Service
	if cfg.users != nil {
		rar = rarity.NewService(cfg.store, cfg.users, cfg.cache)
	}

	bus := engine.NewEventBus(cfg.mode)
	var updater engine.RarityUpdater
	if rar != nil {
		updater = rar
	}
	svc := engine.NewAwardService(cfg.store, cfg.activity, *cfg.cat, bus, updater)
	if cfg.hub != nil {
		// Bridge all award events to realtime
		for _, typ := range []core.EventType{
			core.EventAwardGranted,
			core.EventAwardUpgraded,
			core.EventAwardDowngraded,
			core.EventAwardRevoked,
			core.EventRarityUpdated,
		} {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
	}
	return svc, rar
}
