package fixture

import "context"

// Repository exposes fixture reads plus the upsert used by sync jobs.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID string) ([]Fixture, error)
	GetByID(ctx context.Context, id int64) (Fixture, bool, error)
	UpsertFixtures(ctx context.Context, fixtures []Fixture) error
}
