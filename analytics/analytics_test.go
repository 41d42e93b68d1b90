package analytics

import (
	"testing"
	"time"

	"awardkit/core"
)

func TestDAUCountsDistinctUsers(t *testing.T) {
	d := NewDAU()
	d.OnEvent(core.NewAwardGranted("u1", "critic", 1, "Critic I"))
	d.OnEvent(core.NewAwardGranted("u1", "pioneer", 0, "Pioneer"))
	d.OnEvent(core.NewAwardGranted("u2", "critic", 1, "Critic I"))
	d.OnEvent(core.NewRarityUpdated("critic", 1, 50)) // no user attached

	day := Day(time.Now())
	if got := d.Count(day); got != 2 {
		t.Fatalf("Count(%s) = %d, want 2", day, got)
	}
}

func TestGrantMetricsCounters(t *testing.T) {
	m := NewGrantMetrics()
	m.OnEvent(core.NewAwardGranted("u1", "critic", 1, "Critic I"))
	m.OnEvent(core.NewAwardGranted("u2", "critic", 2, "Critic II"))
	m.OnEvent(core.NewAwardUpgraded("u1", "critic", 2, "Critic II"))
	m.OnEvent(core.NewAwardRevoked("u2", "critic"))
	m.OnEvent(core.NewAwardGranted("u1", "pioneer", 0, "Pioneer"))

	if got := m.GrantsByCode("critic"); got != 2 {
		t.Fatalf("GrantsByCode = %d, want 2", got)
	}
	if got := m.UpgradesByCode("critic"); got != 1 {
		t.Fatalf("UpgradesByCode = %d, want 1", got)
	}
	if got := m.RevokesByCode("critic"); got != 1 {
		t.Fatalf("RevokesByCode = %d, want 1", got)
	}
	if got := m.TotalGrants(); got != 3 {
		t.Fatalf("TotalGrants = %d, want 3", got)
	}
	if got := m.GrantsByDay(Day(time.Now())); got != 3 {
		t.Fatalf("GrantsByDay = %d, want 3", got)
	}
}

func TestGrantMetricsUniqueHoldersSurviveRevoke(t *testing.T) {
	m := NewGrantMetrics()
	m.OnEvent(core.NewAwardGranted("u1", "pioneer", 0, "Pioneer"))
	m.OnEvent(core.NewAwardRevoked("u1", "pioneer"))
	m.OnEvent(core.NewAwardGranted("u1", "pioneer", 0, "Pioneer"))

	if got := m.UniqueHolders("pioneer"); got != 1 {
		t.Fatalf("UniqueHolders = %d, want 1", got)
	}
	if got := m.GrantsByCode("pioneer"); got != 2 {
		t.Fatalf("GrantsByCode = %d, want 2", got)
	}
}

func TestGrantMetricsTierDistribution(t *testing.T) {
	m := NewGrantMetrics()
	m.OnEvent(core.NewAwardGranted("u1", "critic", 1, "Critic I"))
	m.OnEvent(core.NewAwardUpgraded("u1", "critic", 2, "Critic II"))
	m.OnEvent(core.NewAwardGranted("u2", "critic", 2, "Critic II"))

	if got := m.TierReachedCount("critic", 2); got != 2 {
		t.Fatalf("TierReachedCount(2) = %d, want 2", got)
	}
	if got := m.TierReachedCount("critic", 1); got != 1 {
		t.Fatalf("TierReachedCount(1) = %d, want 1", got)
	}
}

func TestBridgeFansOut(t *testing.T) {
	d := NewDAU()
	m := NewGrantMetrics()
	b := NewBridge(d, m)

	b.OnEvent(core.NewAwardGranted("u1", "critic", 1, "Critic I"))

	if d.Count(Day(time.Now())) != 1 {
		t.Fatal("DAU missed the event")
	}
	if m.TotalGrants() != 1 {
		t.Fatal("GrantMetrics missed the event")
	}
}
