package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// UserAward mirrors the public JSON surface of a held award.
type UserAward struct {
	UserID      string    `json:"user_id"`
	Code        string    `json:"code"`
	Tier        int       `json:"tier"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CatalogEntry describes one tier of one award as published by the API.
type CatalogEntry struct {
	Code             string `json:"code"`
	Tier             int    `json:"tier"`
	Position         int    `json:"position"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	GuideDescription string `json:"guide_description,omitempty"`
	CanBeRemoved     bool   `json:"can_be_removed"`
}

// Rarity is the cached rarity percentage of an award tier.
type Rarity struct {
	Code   string  `json:"code"`
	Tier   int     `json:"tier"`
	Rarity float64 `json:"rarity"`
}

// LeaderboardEntry is one row of the most-decorated-users board.
type LeaderboardEntry struct {
	User  string `json:"User"`
	Score int64  `json:"Score"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// ErrEmptyUserID is returned when user id is empty.
var ErrEmptyUserID = errors.New("user id is required")
