package engine

import (
	"context"
	"testing"
	"time"

	"awardkit/core"
)

func TestEventBusSync(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	count := 0
	bus.Subscribe(core.EventAwardGranted, func(ctx context.Context, e core.Event) { count++ })
	bus.Publish(context.Background(), core.NewAwardGranted("u", "architect", 1, "Architect I"))
	if count != 1 {
		t.Fatalf("want 1 got %d", count)
	}
}

func TestEventBusAsync(t *testing.T) {
	bus := NewEventBus(DispatchAsync)
	defer bus.Close()
	ch := make(chan struct{})
	bus.Subscribe(core.EventAwardRevoked, func(ctx context.Context, e core.Event) { close(ch) })
	bus.Publish(context.Background(), core.NewAwardRevoked("u", "pioneer"))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(DispatchSync)
	count := 0
	unsub := bus.Subscribe(core.EventAwardGranted, func(ctx context.Context, e core.Event) { count++ })
	unsub()
	bus.Publish(context.Background(), core.NewAwardGranted("u", "critic", 2, "Critic II"))
	if count != 0 {
		t.Fatalf("want 0 got %d", count)
	}
}
