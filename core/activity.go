package core

import (
	"context"
	"time"
)

// WalkthroughType distinguishes written from video walkthroughs.
type WalkthroughType string

const (
	WalkthroughAny   WalkthroughType = ""
	WalkthroughText  WalkthroughType = "text"
	WalkthroughVideo WalkthroughType = "video"
)

// LevelFilter narrows authored-level counts. Nil bounds mean "no bound".
// Rating positions order the site's rating classes from worst to best.
type LevelFilter struct {
	MinRatingPosition *int
	MaxRatingPosition *int
	MinTagCount       int
	Genre             string
}

// ReviewFilter narrows authored-review counts. Position is the review's
// rank among a level's reviews, assigned by the review subsystem.
// MaxLatency, when non-zero, keeps only reviews posted within that duration
// of the reviewed level's creation.
type ReviewFilter struct {
	MinPosition *int
	MaxPosition *int
	MaxLatency  time.Duration
}

// PlaylistFilter narrows finished-playlist counts by the played level's
// rating-class position.
type PlaylistFilter struct {
	MinRatingPosition *int
	MaxRatingPosition *int
}

// Snapshot is the read-only view of one user's historical activity that
// eligibility requirements query. It is owned by the surrounding data layer;
// the awards engine only consumes it. Absence of records is never an error:
// counts come back zero and time slices come back empty.
type Snapshot interface {
	// AuthoredLevelCount counts the user's approved authored levels
	// matching the filter.
	AuthoredLevelCount(ctx context.Context, f LevelFilter) (int, error)

	// AuthoredLevelReleaseTimes returns the release timestamps of the
	// user's approved authored levels, in no particular order.
	AuthoredLevelReleaseTimes(ctx context.Context) ([]time.Time, error)

	// DistinctPlayerCount counts the distinct users who have added any of
	// this user's levels to their playlist.
	DistinctPlayerCount(ctx context.Context) (int, error)

	// ReviewCount counts reviews the user has authored matching the filter.
	ReviewCount(ctx context.Context, f ReviewFilter) (int, error)

	// ReviewCountsByLevelAuthor groups the user's reviews by the reviewed
	// level's author and returns per-author counts.
	ReviewCountsByLevelAuthor(ctx context.Context) (map[UserID]int, error)

	// FinishedPlaylistCount counts the user's playlist entries marked
	// finished, matching the filter.
	FinishedPlaylistCount(ctx context.Context, f PlaylistFilter) (int, error)

	// ApprovedWalkthroughCount counts the user's approved walkthroughs of
	// the given type (WalkthroughAny for all).
	ApprovedWalkthroughCount(ctx context.Context, typ WalkthroughType) (int, error)

	// Profile returns join date and account standing.
	Profile(ctx context.Context) (Profile, error)
}
