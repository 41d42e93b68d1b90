// Package analytics aggregates award activity into in-process KPI counters.
// Hooks attach to the engine's event bus and count grants, upgrades and
// revocations without touching the award store.
package analytics

import (
	"sync"
	"time"

	"awardkit/core"
)

// Hook receives domain events for KPI aggregation.
type Hook interface {
	OnEvent(e core.Event)
}

// DAU tracks daily active users, where "active" means any award activity.
type DAU struct {
	mu   sync.Mutex
	days map[string]map[core.UserID]struct{}
}

func NewDAU() *DAU { return &DAU{days: map[string]map[core.UserID]struct{}{}} }

func (d *DAU) OnEvent(e core.Event) {
	if e.UserID == "" {
		return
	}
	day := e.Time.UTC().Format("2006-01-02")
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.days[day]
	if m == nil {
		m = map[core.UserID]struct{}{}
		d.days[day] = m
	}
	m[e.UserID] = struct{}{}
}

func (d *DAU) Count(day string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.days[day])
}

// GrantMetrics aggregates grant, upgrade, downgrade and revoke counts.
type GrantMetrics struct {
	mu sync.RWMutex

	grantsByDay  map[string]int64
	grantsByCode map[core.AwardCode]int64

	upgradesByCode   map[core.AwardCode]int64
	downgradesByCode map[core.AwardCode]int64
	revokesByCode    map[core.AwardCode]int64

	// Holders ever seen per code, not current holders. Revokes do not
	// shrink this set; it answers "how many users ever earned X".
	holdersByCode map[core.AwardCode]map[core.UserID]struct{}

	tierDistribution map[core.AwardCode]map[int]int64
}

func NewGrantMetrics() *GrantMetrics {
	return &GrantMetrics{
		grantsByDay:      make(map[string]int64),
		grantsByCode:     make(map[core.AwardCode]int64),
		upgradesByCode:   make(map[core.AwardCode]int64),
		downgradesByCode: make(map[core.AwardCode]int64),
		revokesByCode:    make(map[core.AwardCode]int64),
		holdersByCode:    make(map[core.AwardCode]map[core.UserID]struct{}),
		tierDistribution: make(map[core.AwardCode]map[int]int64),
	}
}

func (m *GrantMetrics) OnEvent(e core.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day := e.Time.UTC().Format("2006-01-02")

	switch e.Type {
	case core.EventAwardGranted:
		m.grantsByDay[day]++
		m.grantsByCode[e.Code]++
		m.recordHolder(e.Code, e.UserID)
		m.recordTier(e.Code, e.Tier)
	case core.EventAwardUpgraded:
		m.upgradesByCode[e.Code]++
		m.recordTier(e.Code, e.Tier)
	case core.EventAwardDowngraded:
		m.downgradesByCode[e.Code]++
		m.recordTier(e.Code, e.Tier)
	case core.EventAwardRevoked:
		m.revokesByCode[e.Code]++
	}
}

func (m *GrantMetrics) recordHolder(code core.AwardCode, user core.UserID) {
	if m.holdersByCode[code] == nil {
		m.holdersByCode[code] = make(map[core.UserID]struct{})
	}
	m.holdersByCode[code][user] = struct{}{}
}

func (m *GrantMetrics) recordTier(code core.AwardCode, tier int) {
	if m.tierDistribution[code] == nil {
		m.tierDistribution[code] = make(map[int]int64)
	}
	m.tierDistribution[code][tier]++
}

// GrantsByDay returns total first-time grants on a specific day.
func (m *GrantMetrics) GrantsByDay(day string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grantsByDay[day]
}

// GrantsByCode returns total first-time grants of a specific award.
func (m *GrantMetrics) GrantsByCode(code core.AwardCode) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grantsByCode[code]
}

// UpgradesByCode returns total tier upgrades of a specific award.
func (m *GrantMetrics) UpgradesByCode(code core.AwardCode) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.upgradesByCode[code]
}

// RevokesByCode returns total revocations of a specific award.
func (m *GrantMetrics) RevokesByCode(code core.AwardCode) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revokesByCode[code]
}

// UniqueHolders returns the count of users who have ever earned the award.
func (m *GrantMetrics) UniqueHolders(code core.AwardCode) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.holdersByCode[code])
}

// TierReachedCount returns how many times the given tier of an award was
// entered, via grant, upgrade, or downgrade.
func (m *GrantMetrics) TierReachedCount(code core.AwardCode, tier int) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tierDistribution[code][tier]
}

// TotalGrants sums first-time grants across all awards.
func (m *GrantMetrics) TotalGrants() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, v := range m.grantsByCode {
		total += v
	}
	return total
}

// Day formats a time as the day key used by the per-day counters.
func Day(t time.Time) string { return t.UTC().Format("2006-01-02") }
