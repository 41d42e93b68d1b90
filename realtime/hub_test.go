package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"awardkit/core"
)

func TestHubSubscribeBroadcastUnsubscribe(t *testing.T) {
	h := NewHub()
	id, ch := h.Subscribe(1)

	ev := core.NewAwardGranted("bob", "architect", 1, "Architect I")
	h.Broadcast(context.Background(), ev)

	received := <-ch
	if received.UserID != "bob" || received.Type != core.EventAwardGranted {
		t.Fatalf("unexpected event: %+v", received)
	}

	h.Unsubscribe(id)
	_, ok := <-ch
	if ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
}

func TestMarshalJSON(t *testing.T) {
	ev := core.NewAwardRevoked("alice", "pioneer")
	b := MarshalJSON(ev)
	var out core.Event
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Code != "pioneer" || out.Type != core.EventAwardRevoked {
		t.Fatalf("unexpected event: %+v", out)
	}
}
