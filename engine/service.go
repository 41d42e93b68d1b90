package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"awardkit/catalog"
	"awardkit/core"
)

// AwardService reconciles users' held awards against the catalogue.
//
// The service holds no locks of its own: concurrent UpdateAwards calls for
// the same user are tolerated, converging through the store's (user, code)
// uniqueness constraint plus a single retry on insert conflict. Whichever
// evaluation ran last wins the tier value.
type AwardService struct {
	store    AwardStore
	activity ActivitySource
	catalog  catalog.Catalog
	bus      *EventBus
	rarity   RarityUpdater
}

// NewAwardService wires the grant engine. rarity may be nil when rarity
// refreshes are driven externally.
func NewAwardService(store AwardStore, activity ActivitySource, cat catalog.Catalog, bus *EventBus, rarity RarityUpdater) *AwardService {
	if store == nil || activity == nil || bus == nil {
		panic("NewAwardService requires non-nil store, activity, and bus")
	}
	return &AwardService{store: store, activity: activity, catalog: cat, bus: bus, rarity: rarity}
}

// Catalog returns the catalogue the service was built with.
func (s *AwardService) Catalog() catalog.Catalog { return s.catalog }

// Subscribe convenience method.
func (s *AwardService) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return s.bus.Subscribe(typ, handler)
}

// Publish forwards an event to the service's bus.
func (s *AwardService) Publish(ctx context.Context, e core.Event) {
	s.bus.Publish(ctx, e)
}

// UserAwards returns the awards the user currently holds.
func (s *AwardService) UserAwards(ctx context.Context, user core.UserID) ([]core.UserAward, error) {
	normalized, err := core.NormalizeUserID(user)
	if err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, normalized)
}

// Recipients pages through the users holding (code, tier), most recently
// granted first. Unknown codes return core.ErrNotFound.
func (s *AwardService) Recipients(ctx context.Context, code core.AwardCode, tier, offset, limit int) ([]core.UserAward, error) {
	if len(s.catalog.SpecsFor(code)) == 0 {
		return nil, fmt.Errorf("award %q: %w", code, core.ErrNotFound)
	}
	return s.store.ListRecipients(ctx, code, tier, offset, limit)
}

// UpdateAwards recomputes eligibility for every award code and applies
// grant, upgrade, downgrade, or revoke operations. Non-removable awards are
// sticky: once held, the tier never moves down and the row is never deleted.
// Removable awards track current eligibility exactly. When updateRarity is
// set, each applied change refreshes the rarity cache for the new tier.
func (s *AwardService) UpdateAwards(ctx context.Context, user core.UserID, updateRarity bool) error {
	normalized, err := core.NormalizeUserID(user)
	if err != nil {
		return err
	}
	snap, err := s.activity.Snapshot(ctx, normalized)
	if err != nil {
		return err
	}

	for _, code := range s.catalog.Codes() {
		if err := s.updateCode(ctx, normalized, snap, code, updateRarity); err != nil {
			return err
		}
	}
	return nil
}

func (s *AwardService) updateCode(ctx context.Context, user core.UserID, snap core.Snapshot, code core.AwardCode, updateRarity bool) error {
	tier, spec, err := MaxEligibleSpec(ctx, snap, s.catalog.SpecsFor(code))
	if err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, user, code)
	held := true
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("load award %q: %w", code, err)
		}
		held = false
	}

	switch {
	case !held && tier == core.TierNone:
		return nil

	case !held:
		award := awardFromSpec(user, *spec)
		if err := s.createWithRetry(ctx, award); err != nil {
			return err
		}
		s.bus.Publish(ctx, core.NewAwardGranted(user, code, tier, spec.Title))
		return s.refreshRarity(ctx, updateRarity, code, tier)

	case tier == existing.Tier:
		// Re-saving an unchanged tier would be a no-op; skip it so repeated
		// runs leave rows untouched.
		return nil

	case tier > existing.Tier:
		if err := s.store.Update(ctx, updatedAward(existing, *spec)); err != nil {
			return fmt.Errorf("upgrade award %q: %w", code, err)
		}
		s.bus.Publish(ctx, core.NewAwardUpgraded(user, code, tier, spec.Title))
		return s.refreshRarity(ctx, updateRarity, code, tier)

	case tier == core.TierNone:
		if !s.removable(code) {
			return nil
		}
		if err := s.store.Delete(ctx, user, code); err != nil {
			return fmt.Errorf("revoke award %q: %w", code, err)
		}
		s.bus.Publish(ctx, core.NewAwardRevoked(user, code))
		return nil

	default: // tier < existing.Tier, tier >= 0
		if !s.removable(code) {
			return nil
		}
		if err := s.store.Update(ctx, updatedAward(existing, *spec)); err != nil {
			return fmt.Errorf("downgrade award %q: %w", code, err)
		}
		s.bus.Publish(ctx, core.NewAwardDowngraded(user, code, tier, spec.Title))
		return s.refreshRarity(ctx, updateRarity, code, tier)
	}
}

// createWithRetry inserts a fresh award row. A concurrent evaluation may
// have inserted the row first; that single expected conflict is retried as
// an update. A second failure is a genuine anomaly and propagates.
func (s *AwardService) createWithRetry(ctx context.Context, award core.UserAward) error {
	err := s.store.Create(ctx, award)
	if err == nil {
		return nil
	}
	if !errors.Is(err, core.ErrConflict) {
		return fmt.Errorf("grant award %q: %w", award.Code, err)
	}
	if err := s.store.Update(ctx, award); err != nil {
		return fmt.Errorf("grant award %q after conflict: %w", award.Code, err)
	}
	return nil
}

func (s *AwardService) refreshRarity(ctx context.Context, enabled bool, code core.AwardCode, tier int) error {
	if !enabled || s.rarity == nil {
		return nil
	}
	pct, err := s.rarity.Update(ctx, code, tier)
	if err != nil {
		return fmt.Errorf("update rarity for %q tier %d: %w", code, tier, err)
	}
	s.bus.Publish(ctx, core.NewRarityUpdated(code, tier, pct))
	return nil
}

// removable reports the CanBeRemoved flag of an award code. The flag is
// uniform across a code's tiers.
func (s *AwardService) removable(code core.AwardCode) bool {
	specs := s.catalog.SpecsFor(code)
	return len(specs) > 0 && specs[0].CanBeRemoved
}

func awardFromSpec(user core.UserID, spec catalog.Spec) core.UserAward {
	now := time.Now().UTC()
	return core.UserAward{
		UserID:      user,
		Code:        spec.Code,
		Tier:        spec.Tier,
		Title:       spec.Title,
		Description: spec.Description,
		Position:    spec.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func updatedAward(existing core.UserAward, spec catalog.Spec) core.UserAward {
	existing.Tier = spec.Tier
	existing.Title = spec.Title
	existing.Description = spec.Description
	existing.Position = spec.Position
	existing.UpdatedAt = time.Now().UTC()
	return existing
}
