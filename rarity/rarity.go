// Package rarity computes and caches the population-wide rarity percentage
// of each award tier. Cached values have no expiry: a cache entry is the
// source of truth until a caller explicitly triggers recomputation.
package rarity

import (
	"context"
	"fmt"
	"sync"

	"awardkit/catalog"
	"awardkit/core"
)

// Cache stores rarity percentages keyed by (code, tier). Entries never
// expire on their own.
type Cache interface {
	Get(ctx context.Context, code core.AwardCode, tier int) (float64, bool, error)
	Set(ctx context.Context, code core.AwardCode, tier int, pct float64) error
}

// HolderCounter counts users currently holding (code, tier). The engine's
// AwardStore satisfies it.
type HolderCounter interface {
	CountHolders(ctx context.Context, code core.AwardCode, tier int) (int, error)
}

// UserCounter reports the active user population, the rarity denominator.
type UserCounter interface {
	ActiveUserCount(ctx context.Context) (int, error)
}

// Service derives rarity statistics from award rows.
type Service struct {
	holders HolderCounter
	users   UserCounter
	cache   Cache
}

func NewService(holders HolderCounter, users UserCounter, cache Cache) *Service {
	if holders == nil || users == nil || cache == nil {
		panic("rarity.NewService requires non-nil holders, users, and cache")
	}
	return &Service{holders: holders, users: users, cache: cache}
}

// Update recomputes the rarity for (code, tier) and caches it.
//
// Rarity is inverted popularity clamped at 100. The holder count is reduced
// by one so the very first holder of a brand-new award still reads as fully
// rare instead of producing a divide-by-population artifact.
func (s *Service) Update(ctx context.Context, code core.AwardCode, tier int) (float64, error) {
	holders, err := s.holders.CountHolders(ctx, code, tier)
	if err != nil {
		return 0, fmt.Errorf("count holders of %q tier %d: %w", code, tier, err)
	}
	total, err := s.users.ActiveUserCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}
	pct := compute(holders, total)
	if err := s.cache.Set(ctx, code, tier, pct); err != nil {
		return 0, fmt.Errorf("cache rarity for %q tier %d: %w", code, tier, err)
	}
	return pct, nil
}

// UpdateAll recomputes rarity for every spec in the catalogue.
func (s *Service) UpdateAll(ctx context.Context, cat catalog.Catalog) error {
	for _, spec := range cat.Specs() {
		if _, err := s.Update(ctx, spec.Code, spec.Tier); err != nil {
			return err
		}
	}
	return nil
}

// Get reads the cached rarity for (code, tier), computing and caching it on
// a miss.
func (s *Service) Get(ctx context.Context, code core.AwardCode, tier int) (float64, error) {
	pct, ok, err := s.cache.Get(ctx, code, tier)
	if err != nil {
		return 0, fmt.Errorf("read rarity for %q tier %d: %w", code, tier, err)
	}
	if ok {
		return pct, nil
	}
	return s.Update(ctx, code, tier)
}

func compute(holders, total int) float64 {
	if total <= 0 {
		return 100
	}
	pct := 100 - (float64(holders-1)/float64(total))*100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// MemoryCache is a process-local Cache, used by tests and single-node demos.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]float64
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{entries: map[string]float64{}} }

func (c *MemoryCache) Get(_ context.Context, code core.AwardCode, tier int) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pct, ok := c.entries[memKey(code, tier)]
	return pct, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, code core.AwardCode, tier int, pct float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memKey(code, tier)] = pct
	return nil
}

func memKey(code core.AwardCode, tier int) string {
	return fmt.Sprintf("%s:%d", code, tier)
}
