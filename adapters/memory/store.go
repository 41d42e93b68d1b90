// Package memory provides in-memory implementations of the engine's
// persistence and activity interfaces, used by tests and the demo server.
package memory

import (
	"context"
	"sort"
	"sync"

	"awardkit/core"
)

type awardKey struct {
	user core.UserID
	code core.AwardCode
}

// Store is a concurrent in-memory AwardStore. It enforces the same
// (user, code) uniqueness a relational store would: Create on an existing
// key returns core.ErrConflict, so concurrent first-time grants race exactly
// as they do against a real database.
type Store struct {
	mu     sync.Mutex
	awards map[awardKey]core.UserAward
	seq    int64 // grant order, for recency listing
	order  map[awardKey]int64
}

func New() *Store {
	return &Store{
		awards: map[awardKey]core.UserAward{},
		order:  map[awardKey]int64{},
	}
}

func (s *Store) Get(_ context.Context, user core.UserID, code core.AwardCode) (core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.awards[awardKey{user, code}]
	if !ok {
		return core.UserAward{}, core.ErrNotFound
	}
	return a, nil
}

func (s *Store) Create(_ context.Context, award core.UserAward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := awardKey{award.UserID, award.Code}
	if _, exists := s.awards[key]; exists {
		return core.ErrConflict
	}
	s.seq++
	s.awards[key] = award
	s.order[key] = s.seq
	return nil
}

func (s *Store) Update(_ context.Context, award core.UserAward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := awardKey{award.UserID, award.Code}
	if _, exists := s.awards[key]; !exists {
		return core.ErrNotFound
	}
	s.awards[key] = award
	return nil
}

func (s *Store) Delete(_ context.Context, user core.UserID, code core.AwardCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := awardKey{user, code}
	if _, exists := s.awards[key]; !exists {
		return core.ErrNotFound
	}
	delete(s.awards, key)
	delete(s.order, key)
	return nil
}

func (s *Store) ListByUser(_ context.Context, user core.UserID) ([]core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.UserAward
	for key, a := range s.awards {
		if key.user == user {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) ListRecipients(_ context.Context, code core.AwardCode, tier int, offset, limit int) ([]core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	type holder struct {
		award core.UserAward
		seq   int64
	}
	var holders []holder
	for key, a := range s.awards {
		if key.code == code && a.Tier == tier {
			holders = append(holders, holder{award: a, seq: s.order[key]})
		}
	}
	sort.Slice(holders, func(i, j int) bool { return holders[i].seq > holders[j].seq })
	if offset >= len(holders) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(holders) {
		end = len(holders)
	}
	out := make([]core.UserAward, 0, end-offset)
	for _, h := range holders[offset:end] {
		out = append(out, h.award)
	}
	return out, nil
}

func (s *Store) CountHolders(_ context.Context, code core.AwardCode, tier int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for key, a := range s.awards {
		if key.code == code && a.Tier == tier {
			n++
		}
	}
	return n, nil
}
