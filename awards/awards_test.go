package awards

import (
	"context"
	"testing"
	"time"

	mem "awardkit/adapters/memory"
	"awardkit/core"
	"awardkit/engine"
	"awardkit/realtime"
)

func TestNewDefaultsAndOptions(t *testing.T) {
	hub := realtime.NewHub()
	activity := mem.NewActivitySource()
	svc, rar := New(
		WithRealtime(hub),
		WithStore(mem.New()),
		WithActivity(activity),
		WithDispatchMode(engine.DispatchSync),
	)
	if rar == nil {
		t.Fatal("expected rarity service when activity implements UserCounter")
	}

	// basic operation: an active author with one level earns Architect I
	activity.Set("alice", mem.UserActivity{
		Profile: core.Profile{JoinedAt: time.Now().Add(-time.Hour), Active: true},
		Levels:  []mem.Level{{Approved: true, ReleasedAt: time.Now()}},
	})
	if err := svc.UpdateAwards(context.Background(), "alice", false); err != nil {
		t.Fatalf("update awards: %v", err)
	}
	held, err := svc.UserAwards(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user awards: %v", err)
	}
	if len(held) == 0 {
		t.Fatal("expected at least one award")
	}

	// realtime bridge should receive events
	_, ch := hub.Subscribe(1)
	svc.Publish(context.Background(), core.NewAwardGranted("alice", "architect", 1, "Architect I"))
	ev := <-ch
	if ev.UserID != "alice" || ev.Type != core.EventAwardGranted {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestNewInMemoryDefaults(t *testing.T) {
	svc, rar := New(WithDispatchMode(engine.DispatchSync))
	if rar == nil {
		t.Fatal("defaults should wire rarity")
	}
	// unknown user: no activity, nothing granted
	if err := svc.UpdateAwards(context.Background(), "bob", false); err != nil {
		t.Fatalf("update awards: %v", err)
	}
	held, err := svc.UserAwards(context.Background(), "bob")
	if err != nil {
		t.Fatalf("user awards: %v", err)
	}
	if len(held) != 0 {
		t.Fatalf("expected no awards, got %+v", held)
	}
}
