package engine

import (
	"context"
	"fmt"

	"awardkit/catalog"
	"awardkit/core"
)

// MaxEligibleSpec evaluates every spec of one award code against the user's
// activity snapshot and returns the highest tier whose requirement holds,
// together with its spec. When no tier is eligible it returns core.TierNone
// and a nil spec. Requirement evaluation errors propagate unmodified.
func MaxEligibleSpec(ctx context.Context, snap core.Snapshot, specs []catalog.Spec) (int, *catalog.Spec, error) {
	best := core.TierNone
	var bestSpec *catalog.Spec
	for i := range specs {
		ok, err := specs[i].Requirement.CheckEligible(ctx, snap)
		if err != nil {
			return core.TierNone, nil, fmt.Errorf("award %q tier %d: %w", specs[i].Code, specs[i].Tier, err)
		}
		if ok && (bestSpec == nil || specs[i].Tier > best) {
			best = specs[i].Tier
			bestSpec = &specs[i]
		}
	}
	return best, bestSpec, nil
}
