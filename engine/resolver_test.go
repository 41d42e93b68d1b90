package engine_test

import (
	"context"
	"errors"
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

const day = 24 * time.Hour

func reviewerLadder(removable bool) []catalog.Spec {
	totals := []int{25, 100, 200, 400, 800}
	early := []int{5, 15, 50, 100, 200}
	specs := make([]catalog.Spec, 0, 5)
	for i := range totals {
		specs = append(specs, catalog.Spec{
			Code:         "critic",
			Tier:         i + 1,
			Position:     1,
			Title:        "Critic",
			CanBeRemoved: removable,
			Requirement: req.And(
				req.TotalReviews{Min: totals[i]},
				req.EarlyReviews{Min: early[i], Within: 30 * day},
			),
		})
	}
	return specs
}

func reviewerSnapshot(t *testing.T, total, early int) core.Snapshot {
	t.Helper()
	reviews := make([]mem.Review, 0, total)
	for i := 0; i < total; i++ {
		latency := 60 * day
		if i < early {
			latency = day
		}
		reviews = append(reviews, mem.Review{Position: 1, Latency: latency})
	}
	src := mem.NewActivitySource()
	src.Set("u", mem.UserActivity{Reviews: reviews})
	snap, err := src.Snapshot(context.Background(), "u")
	require.NoError(t, err)
	return snap
}

func TestMaxEligibleSpecPicksHighestSatisfiedTier(t *testing.T) {
	specs := reviewerLadder(false)
	ctx := context.Background()

	// 150 total and 20 early clears tier 2 (100/15) but not tier 3 (200/50).
	tier, spec, err := engine.MaxEligibleSpec(ctx, reviewerSnapshot(t, 150, 20), specs)
	require.NoError(t, err)
	require.NotNil(t, spec)
	assert.Equal(t, 2, tier)
	assert.Equal(t, 2, spec.Tier)
}

func TestMaxEligibleSpecIneligible(t *testing.T) {
	specs := reviewerLadder(false)
	tier, spec, err := engine.MaxEligibleSpec(context.Background(), reviewerSnapshot(t, 10, 10), specs)
	require.NoError(t, err)
	assert.Equal(t, core.TierNone, tier)
	assert.Nil(t, spec)
}

func TestMaxEligibleSpecTopTier(t *testing.T) {
	specs := reviewerLadder(false)
	tier, _, err := engine.MaxEligibleSpec(context.Background(), reviewerSnapshot(t, 900, 250), specs)
	require.NoError(t, err)
	assert.Equal(t, 5, tier)
}

type failingRequirement struct{ err error }

func (f failingRequirement) CheckEligible(context.Context, core.Snapshot) (bool, error) {
	return false, f.err
}

func TestMaxEligibleSpecPropagatesEvaluationError(t *testing.T) {
	boom := errors.New("activity store down")
	specs := []catalog.Spec{{Code: "critic", Tier: 1, Position: 1, Requirement: failingRequirement{err: boom}}}
	_, _, err := engine.MaxEligibleSpec(context.Background(), reviewerSnapshot(t, 0, 0), specs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
}
