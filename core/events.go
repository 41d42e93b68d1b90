package core

import "time"

// EventType enumerates domain events.
type EventType string

const (
	EventAwardGranted    EventType = "award_granted"
	EventAwardUpgraded   EventType = "award_upgraded"
	EventAwardDowngraded EventType = "award_downgraded"
	EventAwardRevoked    EventType = "award_revoked"
	EventRarityUpdated   EventType = "rarity_updated"
)

// Event represents an immutable domain event.
type Event struct {
	Type     EventType      `json:"type"`
	Time     time.Time      `json:"time"`
	UserID   UserID         `json:"user_id,omitempty"`
	Code     AwardCode      `json:"code,omitempty"`
	Tier     int            `json:"tier,omitempty"`
	Title    string         `json:"title,omitempty"`
	Rarity   float64        `json:"rarity,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func NewAwardGranted(user UserID, code AwardCode, tier int, title string) Event {
	return Event{Type: EventAwardGranted, Time: time.Now().UTC(), UserID: user, Code: code, Tier: tier, Title: title}
}

func NewAwardUpgraded(user UserID, code AwardCode, tier int, title string) Event {
	return Event{Type: EventAwardUpgraded, Time: time.Now().UTC(), UserID: user, Code: code, Tier: tier, Title: title}
}

func NewAwardDowngraded(user UserID, code AwardCode, tier int, title string) Event {
	return Event{Type: EventAwardDowngraded, Time: time.Now().UTC(), UserID: user, Code: code, Tier: tier, Title: title}
}

func NewAwardRevoked(user UserID, code AwardCode) Event {
	return Event{Type: EventAwardRevoked, Time: time.Now().UTC(), UserID: user, Code: code, Tier: TierNone}
}

func NewRarityUpdated(code AwardCode, tier int, rarity float64) Event {
	return Event{Type: EventRarityUpdated, Time: time.Now().UTC(), Code: code, Tier: tier, Rarity: rarity}
}
