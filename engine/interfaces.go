package engine

import (
	"context"

	"awardkit/core"
)

// AwardStore abstracts persistence for user award rows. The (user, code)
// pair is unique; Create must surface core.ErrConflict when an insert
// collides with that constraint, and Get must surface core.ErrNotFound when
// no row exists.
type AwardStore interface {
	Get(ctx context.Context, user core.UserID, code core.AwardCode) (core.UserAward, error)
	Create(ctx context.Context, award core.UserAward) error
	Update(ctx context.Context, award core.UserAward) error
	Delete(ctx context.Context, user core.UserID, code core.AwardCode) error
	ListByUser(ctx context.Context, user core.UserID) ([]core.UserAward, error)
	// ListRecipients pages through holders of (code, tier), most recently
	// granted first.
	ListRecipients(ctx context.Context, code core.AwardCode, tier int, offset, limit int) ([]core.UserAward, error)
	CountHolders(ctx context.Context, code core.AwardCode, tier int) (int, error)
}

// ActivitySource resolves the read-only activity snapshot for a user. It is
// owned by the surrounding data layer.
type ActivitySource interface {
	Snapshot(ctx context.Context, user core.UserID) (core.Snapshot, error)
}

// RarityUpdater recomputes and caches the rarity percentage for one
// (code, tier) pair.
type RarityUpdater interface {
	Update(ctx context.Context, code core.AwardCode, tier int) (float64, error)
}
