package jsonfile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"awardkit/core"
)

func TestPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awards.json")
	ctx := context.Background()

	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC().Truncate(time.Second)
	award := core.UserAward{
		UserID: "lara", Code: "critic", Tier: 2, Title: "Critic II",
		Position: 2, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.Create(ctx, award); err != nil {
		t.Fatal(err)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	got, err := reloaded.Get(ctx, "lara", "critic")
	if err != nil {
		t.Fatal(err)
	}
	if got.Tier != 2 || got.Title != "Critic II" {
		t.Fatalf("unexpected award after reload: %+v", got)
	}
}

func TestCreateConflict(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "awards.json"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	a := core.UserAward{UserID: "lara", Code: "pioneer"}
	if err := s.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Create(ctx, a); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestDeleteRemovesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "awards.json")
	ctx := context.Background()
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	a := core.UserAward{UserID: "lara", Code: "pioneer"}
	if err := s.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "lara", "pioneer"); err != nil {
		t.Fatal(err)
	}
	reloaded, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reloaded.Get(ctx, "lara", "pioneer"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
