// Package jsonfile persists award rows to a single JSON file.
// Suitable for demos and small deployments.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"awardkit/core"
)

// Store keeps all rows in memory and rewrites the file on every mutation.
type Store struct {
	path string
	mu   sync.Mutex
	data map[string]core.UserAward // keyed user|code
}

func New(path string) (*Store, error) {
	s := &Store{path: path, data: map[string]core.UserAward{}}
	if err := s.load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return s, nil
}

func key(user core.UserID, code core.AwardCode) string {
	return string(user) + "|" + string(code)
}

func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var raw []core.UserAward
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, a := range raw {
		s.data[key(a.UserID, a.Code)] = a
	}
	return nil
}

func (s *Store) persist() error {
	tmp := s.path + ".tmp"
	raw := make([]core.UserAward, 0, len(s.data))
	for _, a := range s.data {
		raw = append(raw, a)
	}
	sort.Slice(raw, func(i, j int) bool {
		if raw[i].UserID == raw[j].UserID {
			return raw[i].Code < raw[j].Code
		}
		return raw[i].UserID < raw[j].UserID
	})
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Get(_ context.Context, user core.UserID, code core.AwardCode) (core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data[key(user, code)]
	if !ok {
		return core.UserAward{}, core.ErrNotFound
	}
	return a, nil
}

func (s *Store) Create(_ context.Context, award core.UserAward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(award.UserID, award.Code)
	if _, exists := s.data[k]; exists {
		return core.ErrConflict
	}
	s.data[k] = award
	return s.persist()
}

func (s *Store) Update(_ context.Context, award core.UserAward) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(award.UserID, award.Code)
	if _, exists := s.data[k]; !exists {
		return core.ErrNotFound
	}
	s.data[k] = award
	return s.persist()
}

func (s *Store) Delete(_ context.Context, user core.UserID, code core.AwardCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(user, code)
	if _, exists := s.data[k]; !exists {
		return core.ErrNotFound
	}
	delete(s.data, k)
	return s.persist()
}

func (s *Store) ListByUser(_ context.Context, user core.UserID) ([]core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.UserAward
	for _, a := range s.data {
		if a.UserID == user {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *Store) ListRecipients(_ context.Context, code core.AwardCode, tier int, offset, limit int) ([]core.UserAward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var holders []core.UserAward
	for _, a := range s.data {
		if a.Code == code && a.Tier == tier {
			holders = append(holders, a)
		}
	}
	sort.Slice(holders, func(i, j int) bool { return holders[i].CreatedAt.After(holders[j].CreatedAt) })
	if offset >= len(holders) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(holders) {
		end = len(holders)
	}
	return holders[offset:end], nil
}

func (s *Store) CountHolders(_ context.Context, code core.AwardCode, tier int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.data {
		if a.Code == code && a.Tier == tier {
			n++
		}
	}
	return n, nil
}
