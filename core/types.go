package core

import (
	"errors"
	"strings"
	"time"
)

// UserID uniquely identifies a community member.
type UserID string

// AwardCode is the stable identity of an award across its tiers.
type AwardCode string

// TierNone is the sentinel for "no tier is eligible". Tier 0 on a held
// award means a one-shot, non-leveled award.
const TierNone = -1

// UserAward is the persisted record of an award a user currently holds.
// There is exactly one row per (user, code); tier changes update it in place
// and revocation deletes it.
type UserAward struct {
	UserID      UserID    `json:"user_id" db:"user_id"`
	Code        AwardCode `json:"code" db:"code"`
	Tier        int       `json:"tier" db:"tier"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Profile is the account-level slice of a user's activity snapshot.
type Profile struct {
	JoinedAt time.Time `json:"joined_at"`
	Active   bool      `json:"active"`
	Banned   bool      `json:"banned"`
}

// NormalizeUserID trims and lowercases user identifiers.
func NormalizeUserID(id UserID) (UserID, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return "", errors.New("empty user id")
	}
	return UserID(strings.ToLower(s)), nil
}

// ValidateAwardCode ensures a non-empty code with a simple charset check.
func ValidateAwardCode(c AwardCode) error {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return errors.New("empty award code")
	}
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_' {
			continue
		}
		return errors.New("invalid award code")
	}
	return nil
}

// Int returns a pointer to v, for optional filter bounds.
func Int(v int) *int { return &v }
