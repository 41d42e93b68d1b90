package memory

import (
	"context"
	"sync"
	"time"

	"awardkit/core"
)

// PlaylistStatus mirrors the playlist states of the surrounding site.
type PlaylistStatus string

const (
	PlaylistNotYetPlayed PlaylistStatus = "not_yet_played"
	PlaylistPlaying      PlaylistStatus = "playing"
	PlaylistFinished     PlaylistStatus = "finished"
	PlaylistDropped      PlaylistStatus = "dropped"
	PlaylistOnHold       PlaylistStatus = "on_hold"
)

// WalkthroughStatus mirrors the walkthrough moderation states.
type WalkthroughStatus string

const (
	WalkthroughDraft    WalkthroughStatus = "draft"
	WalkthroughPending  WalkthroughStatus = "pending"
	WalkthroughApproved WalkthroughStatus = "approved"
)

// Level is an authored level record in a user's activity fixture.
type Level struct {
	Approved       bool
	ReleasedAt     time.Time
	RatingPosition int
	TagCount       int
	Genres         []string
}

// Review is a review record: its rank among the level's reviews, how long
// after the level's creation it was posted, and whose level it reviewed.
type Review struct {
	Position    int
	Latency     time.Duration
	LevelAuthor core.UserID
}

// PlaylistEntry is one of the user's playlist rows.
type PlaylistEntry struct {
	Status              PlaylistStatus
	LevelRatingPosition int
}

// Walkthrough is a walkthrough record.
type Walkthrough struct {
	Status WalkthroughStatus
	Type   core.WalkthroughType
}

// UserActivity is the fixture backing one user's snapshot.
type UserActivity struct {
	Profile      core.Profile
	Levels       []Level
	Players      []core.UserID // players who playlisted this user's levels
	Reviews      []Review
	Playlist     []PlaylistEntry
	Walkthroughs []Walkthrough
}

// ActivitySource serves core.Snapshot views over registered fixtures. An
// unknown user yields an empty snapshot, never an error: absence of records
// is "requirement not met", not a failure.
type ActivitySource struct {
	mu    sync.RWMutex
	users map[core.UserID]UserActivity
}

func NewActivitySource() *ActivitySource {
	return &ActivitySource{users: map[core.UserID]UserActivity{}}
}

// Set registers or replaces a user's activity fixture.
func (a *ActivitySource) Set(user core.UserID, activity UserActivity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[user] = activity
}

// ActiveUserCount counts registered users that are active and not banned.
// It backs the rarity denominator in tests and demos.
func (a *ActivitySource) ActiveUserCount(_ context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, u := range a.users {
		if u.Profile.Active && !u.Profile.Banned {
			n++
		}
	}
	return n, nil
}

func (a *ActivitySource) Snapshot(_ context.Context, user core.UserID) (core.Snapshot, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return &snapshot{activity: a.users[user]}, nil
}

type snapshot struct {
	activity UserActivity
}

func (s *snapshot) AuthoredLevelCount(_ context.Context, f core.LevelFilter) (int, error) {
	n := 0
	for _, lvl := range s.activity.Levels {
		if !lvl.Approved {
			continue
		}
		if f.MinRatingPosition != nil && lvl.RatingPosition < *f.MinRatingPosition {
			continue
		}
		if f.MaxRatingPosition != nil && lvl.RatingPosition > *f.MaxRatingPosition {
			continue
		}
		if lvl.TagCount < f.MinTagCount {
			continue
		}
		if f.Genre != "" && !containsGenre(lvl.Genres, f.Genre) {
			continue
		}
		n++
	}
	return n, nil
}

func (s *snapshot) AuthoredLevelReleaseTimes(_ context.Context) ([]time.Time, error) {
	var out []time.Time
	for _, lvl := range s.activity.Levels {
		if lvl.Approved {
			out = append(out, lvl.ReleasedAt)
		}
	}
	return out, nil
}

func (s *snapshot) DistinctPlayerCount(_ context.Context) (int, error) {
	seen := map[core.UserID]struct{}{}
	for _, p := range s.activity.Players {
		seen[p] = struct{}{}
	}
	return len(seen), nil
}

func (s *snapshot) ReviewCount(_ context.Context, f core.ReviewFilter) (int, error) {
	n := 0
	for _, r := range s.activity.Reviews {
		if f.MinPosition != nil && r.Position < *f.MinPosition {
			continue
		}
		if f.MaxPosition != nil && r.Position > *f.MaxPosition {
			continue
		}
		if f.MaxLatency > 0 && r.Latency > f.MaxLatency {
			continue
		}
		n++
	}
	return n, nil
}

func (s *snapshot) ReviewCountsByLevelAuthor(_ context.Context) (map[core.UserID]int, error) {
	counts := map[core.UserID]int{}
	for _, r := range s.activity.Reviews {
		if r.LevelAuthor != "" {
			counts[r.LevelAuthor]++
		}
	}
	return counts, nil
}

func (s *snapshot) FinishedPlaylistCount(_ context.Context, f core.PlaylistFilter) (int, error) {
	n := 0
	for _, e := range s.activity.Playlist {
		if e.Status != PlaylistFinished {
			continue
		}
		if f.MinRatingPosition != nil && e.LevelRatingPosition < *f.MinRatingPosition {
			continue
		}
		if f.MaxRatingPosition != nil && e.LevelRatingPosition > *f.MaxRatingPosition {
			continue
		}
		n++
	}
	return n, nil
}

func (s *snapshot) ApprovedWalkthroughCount(_ context.Context, typ core.WalkthroughType) (int, error) {
	n := 0
	for _, w := range s.activity.Walkthroughs {
		if w.Status != WalkthroughApproved {
			continue
		}
		if typ != core.WalkthroughAny && w.Type != typ {
			continue
		}
		n++
	}
	return n, nil
}

func (s *snapshot) Profile(_ context.Context) (core.Profile, error) {
	return s.activity.Profile, nil
}

func containsGenre(genres []string, genre string) bool {
	for _, g := range genres {
		if g == genre {
			return true
		}
	}
	return false
}
