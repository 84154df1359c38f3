package quota

import (
	"context"
	"time"
)

// Repository persists quota grants. CreateGrant must be atomic: when two
// requests race on the same key, exactly one insert wins and the loser
// gets ErrDuplicateGrant.
type Repository interface {
	GetGrant(ctx context.Context, identity string, fixtureID int64, scope string, day time.Time) (Grant, bool, error)
	CountGrants(ctx context.Context, identity, scope string, day time.Time) (int, error)
	CreateGrant(ctx context.Context, grant Grant) error
}
