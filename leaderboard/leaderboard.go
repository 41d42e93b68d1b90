// Package leaderboard ranks users by how decorated they are. A Tracker
// consumes award events and keeps a skip-list-backed board ordered by
// decoration score, so "most decorated" queries stay O(log n) per update.
package leaderboard

import (
	"sync"

	"awardkit/core"
)

// Entry represents a score entry.
type Entry struct {
	User  core.UserID
	Score int64
}

// Board abstracts leaderboard operations.
type Board interface {
	Update(user core.UserID, score int64)
	Remove(user core.UserID)
	TopN(n int) []Entry
	Get(user core.UserID) (Entry, bool)
}

// Tracker maintains decoration scores from the award event stream.
// A one-shot award counts 1; a tiered award counts its tier, so holding
// Critic III outweighs holding three one-shot awards' worth of tier I.
type Tracker struct {
	mu    sync.Mutex
	board Board
	held  map[core.UserID]map[core.AwardCode]int64
}

// NewTracker creates a tracker over the given board (defaults to a skip list).
func NewTracker(board Board) *Tracker {
	if board == nil {
		board = NewSkipList()
	}
	return &Tracker{
		board: board,
		held:  map[core.UserID]map[core.AwardCode]int64{},
	}
}

func weight(tier int) int64 {
	if tier <= 0 {
		return 1
	}
	return int64(tier)
}

// OnEvent adjusts the user's score from grant, upgrade, downgrade and
// revoke events. Other event types are ignored.
func (t *Tracker) OnEvent(e core.Event) {
	switch e.Type {
	case core.EventAwardGranted, core.EventAwardUpgraded, core.EventAwardDowngraded:
		t.set(e.UserID, e.Code, weight(e.Tier))
	case core.EventAwardRevoked:
		t.set(e.UserID, e.Code, 0)
	}
}

func (t *Tracker) set(user core.UserID, code core.AwardCode, w int64) {
	if user == "" || code == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	codes := t.held[user]
	if codes == nil {
		codes = map[core.AwardCode]int64{}
		t.held[user] = codes
	}
	if w == 0 {
		delete(codes, code)
	} else {
		codes[code] = w
	}
	var total int64
	for _, v := range codes {
		total += v
	}
	if total == 0 {
		delete(t.held, user)
		t.board.Remove(user)
		return
	}
	t.board.Update(user, total)
}

// Top returns the n most decorated users.
func (t *Tracker) Top(n int) []Entry {
	return t.board.TopN(n)
}

// Score reports a user's current decoration score.
func (t *Tracker) Score(user core.UserID) (int64, bool) {
	e, ok := t.board.Get(user)
	return e.Score, ok
}
