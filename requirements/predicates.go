package requirements

import (
	"context"
	"sort"
	"time"

	"awardkit/core"
)

// AuthoredLevels requires at least Min approved authored levels matching the
// filter.
type AuthoredLevels struct {
	Min    int
	Filter core.LevelFilter
}

func (p AuthoredLevels) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.AuthoredLevelCount(ctx, p.Filter)
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// DistinctPlayers requires that at least Min distinct users have added one of
// the author's levels to their playlist. De-duplication is by player, not by
// playlist entry.
type DistinctPlayers struct {
	Min int
}

func (p DistinctPlayers) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.DistinctPlayerCount(ctx)
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// LevelsReleasedWithin requires two approved levels released at most Window
// apart, boundary inclusive.
type LevelsReleasedWithin struct {
	Window time.Duration
}

func (p LevelsReleasedWithin) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	return anyAdjacentGap(ctx, s, func(gap time.Duration) bool { return gap <= p.Window })
}

// LevelsReleasedApart requires two approved levels released at least Gap
// apart, boundary inclusive.
type LevelsReleasedApart struct {
	Gap time.Duration
}

func (p LevelsReleasedApart) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	return anyAdjacentGap(ctx, s, func(gap time.Duration) bool { return gap >= p.Gap })
}

// anyAdjacentGap sorts the release timestamps and tests consecutive pairs.
// The min and max gap between any two sorted points is always achieved by
// some adjacent pair, so adjacent pairs suffice for both comparisons.
func anyAdjacentGap(ctx context.Context, s core.Snapshot, match func(time.Duration) bool) (bool, error) {
	times, err := s.AuthoredLevelReleaseTimes(ctx)
	if err != nil {
		return false, err
	}
	if len(times) < 2 {
		return false, nil
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })
	for i := 1; i < len(sorted); i++ {
		if match(sorted[i].Sub(sorted[i-1])) {
			return true, nil
		}
	}
	return false, nil
}

// ReviewsAtPosition requires at least Min reviews whose review-rank position
// falls in [MinPosition, MaxPosition].
type ReviewsAtPosition struct {
	Min         int
	MinPosition int
	MaxPosition int
}

func (p ReviewsAtPosition) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.ReviewCount(ctx, core.ReviewFilter{
		MinPosition: core.Int(p.MinPosition),
		MaxPosition: core.Int(p.MaxPosition),
	})
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// EarlyReviews requires at least Min reviews posted within Within of the
// reviewed level's creation.
type EarlyReviews struct {
	Min    int
	Within time.Duration
}

func (p EarlyReviews) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.ReviewCount(ctx, core.ReviewFilter{MaxLatency: p.Within})
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// TotalReviews requires at least Min reviews, any position, any timing.
type TotalReviews struct {
	Min int
}

func (p TotalReviews) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.ReviewCount(ctx, core.ReviewFilter{})
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// ReviewsOfSingleAuthor requires that some single author's body of levels has
// received at least Min reviews from this user. Grouping is by the reviewed
// level's author, not by level.
type ReviewsOfSingleAuthor struct {
	Min int
}

func (p ReviewsOfSingleAuthor) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	counts, err := s.ReviewCountsByLevelAuthor(ctx)
	if err != nil {
		return false, err
	}
	for _, n := range counts {
		if n >= p.Min {
			return true, nil
		}
	}
	return false, nil
}

// JoinedBetween requires an active, unbanned account that joined within
// [From, To], boundary inclusive.
type JoinedBetween struct {
	From time.Time
	To   time.Time
}

func (p JoinedBetween) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	prof, err := s.Profile(ctx)
	if err != nil {
		return false, err
	}
	if !prof.Active || prof.Banned {
		return false, nil
	}
	if prof.JoinedAt.Before(p.From) || prof.JoinedAt.After(p.To) {
		return false, nil
	}
	return true, nil
}

// PlaylistFinished requires at least Min playlist entries marked finished,
// matching the filter.
type PlaylistFinished struct {
	Min    int
	Filter core.PlaylistFilter
}

func (p PlaylistFinished) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.FinishedPlaylistCount(ctx, p.Filter)
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}

// ApprovedWalkthroughs requires at least Min approved walkthroughs of the
// given type.
type ApprovedWalkthroughs struct {
	Min  int
	Type core.WalkthroughType
}

func (p ApprovedWalkthroughs) CheckEligible(ctx context.Context, s core.Snapshot) (bool, error) {
	n, err := s.ApprovedWalkthroughCount(ctx, p.Type)
	if err != nil {
		return false, err
	}
	return n >= p.Min, nil
}
