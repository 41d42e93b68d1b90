package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"awardkit/adapters/jsonfile"
	mem "awardkit/adapters/memory"
	"awardkit/adapters/rediscache"
	sqlxAdapter "awardkit/adapters/sqlx"
	"awardkit/api/httpapi"
	"awardkit/catalog"
	"awardkit/config"
	"awardkit/core"
	"awardkit/engine"
	"awardkit/leaderboard"
	"awardkit/rarity"
	"awardkit/realtime"
)

// App aggregates the assembled server components.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Hub     *realtime.Hub
	Service *engine.AwardService
	Rarity  *rarity.Service
	Board   *leaderboard.Tracker
	Handler http.Handler
	Server  *http.Server
}

func provideConfig(ctx context.Context) (*config.Config, error) {
	return config.Load()
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return setupLogging(cfg)
}

func provideHub() *realtime.Hub {
	return realtime.NewHub()
}

func provideCatalog() catalog.Catalog {
	return catalog.Default()
}

func provideStore(ctx context.Context, cfg *config.Config) (engine.AwardStore, error) {
	return setupStore(ctx, cfg)
}

// provideActivity supplies the activity snapshot source. The standalone
// server ships with the in-memory source; deployments embedded in the site
// backend swap in one backed by the site's own tables.
func provideActivity() *mem.ActivitySource {
	return mem.NewActivitySource()
}

func provideCache(cfg *config.Config) (rarity.Cache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return rediscache.New(cfg.Cache.Redis)
	default:
		return rarity.NewMemoryCache(), nil
	}
}

// provideRarity prefers the store's user population when the adapter can
// count users (the SQL store reads the site's users table); otherwise it
// falls back to the activity source.
func provideRarity(store engine.AwardStore, activity *mem.ActivitySource, cache rarity.Cache) *rarity.Service {
	var users rarity.UserCounter = activity
	if uc, ok := store.(rarity.UserCounter); ok {
		users = uc
	}
	return rarity.NewService(store, users, cache)
}

func awardEventTypes() []core.EventType {
	return []core.EventType{
		core.EventAwardGranted,
		core.EventAwardUpgraded,
		core.EventAwardDowngraded,
		core.EventAwardRevoked,
		core.EventRarityUpdated,
	}
}

func provideBus(hub *realtime.Hub) *engine.EventBus {
	bus := engine.NewEventBus(engine.DispatchAsync)
	for _, typ := range awardEventTypes() {
		bus.Subscribe(typ, func(ctx context.Context, e core.Event) { hub.Broadcast(ctx, e) })
	}
	return bus
}

func provideBoard(bus *engine.EventBus) *leaderboard.Tracker {
	board := leaderboard.NewTracker(nil)
	for _, typ := range awardEventTypes() {
		bus.Subscribe(typ, func(_ context.Context, e core.Event) { board.OnEvent(e) })
	}
	return board
}

func provideService(store engine.AwardStore, activity *mem.ActivitySource, cat catalog.Catalog, bus *engine.EventBus, rar *rarity.Service) *engine.AwardService {
	return engine.NewAwardService(store, activity, cat, bus, rar)
}

func provideHandler(svc *engine.AwardService, hub *realtime.Hub, rar *rarity.Service, board *leaderboard.Tracker, cfg *config.Config) http.Handler {
	return httpapi.NewMux(svc, hub, rar, board, httpapi.Options{
		PathPrefix:           cfg.Server.PathPrefix,
		AllowCORSOrigin:      cfg.Server.CORSOrigin,
		APIKeys:              cfg.Security.APIKeys,
		RateLimitEnabled:     cfg.Security.EnableRateLimit,
		RateLimitRPM:         cfg.Security.RateLimit.RequestsPerMinute,
		RateLimitBurst:       cfg.Security.RateLimit.BurstSize,
		UpdateRarityOnChange: cfg.Awards.UpdateRarityOnChange,
	})
}

func provideServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// setupLogging configures the logger based on configuration.
func setupLogging(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	switch cfg.Logging.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	if len(cfg.Logging.Attributes) > 0 {
		handler = handler.WithAttrs(convertAttributes(cfg.Logging.Attributes))
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// convertAttributes converts map[string]string to []slog.Attr.
func convertAttributes(attrs map[string]string) []slog.Attr {
	var result []slog.Attr
	for k, v := range attrs {
		result = append(result, slog.String(k, v))
	}
	return result
}

// setupStore creates the appropriate award store based on configuration.
func setupStore(ctx context.Context, cfg *config.Config) (engine.AwardStore, error) {
	switch cfg.Storage.Adapter {
	case "memory":
		return mem.New(), nil
	case "sql":
		return sqlxAdapter.New(cfg.Storage.SQL)
	case "file":
		return jsonfile.New(cfg.Storage.File.Path)
	default:
		return nil, fmt.Errorf("unknown storage adapter: %s", cfg.Storage.Adapter)
	}
}
