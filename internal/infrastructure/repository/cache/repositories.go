// Package cache wraps repositories with a read-through in-process cache.
// Sync writes invalidate the affected keys so browse endpoints never serve
// a table from before the last sync.
package cache

import (
	"context"
	"strconv"

	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
	basecache "github.com/matchmindhq/matchmind/internal/platform/cache"
)

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	key := "fixture:list:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]fixture.Fixture(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]fixture.Fixture)
	return append([]fixture.Fixture(nil), items...), nil
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (fixture.Fixture, bool, error) {
	key := "fixture:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedFixtureByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	cached, _ := v.(cachedFixtureByID)
	return cached.value, cached.exists, nil
}

func (r *FixtureRepository) UpsertFixtures(ctx context.Context, fixtures []fixture.Fixture) error {
	if err := r.next.UpsertFixtures(ctx, fixtures); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "fixture:")
	return nil
}

type cachedFixtureByID struct {
	value  fixture.Fixture
	exists bool
}

type StandingRepository struct {
	next  leaguestanding.Repository
	cache *basecache.Store
}

func NewStandingRepository(next leaguestanding.Repository, cache *basecache.Store) *StandingRepository {
	return &StandingRepository{next: next, cache: cache}
}

func (r *StandingRepository) ListByLeague(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	key := "standing:list:" + leagueID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByLeague(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return append([]leaguestanding.Standing(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]leaguestanding.Standing)
	return append([]leaguestanding.Standing(nil), items...), nil
}

func (r *StandingRepository) ReplaceByLeague(ctx context.Context, leagueID string, standings []leaguestanding.Standing) error {
	if err := r.next.ReplaceByLeague(ctx, leagueID, standings); err != nil {
		return err
	}
	r.cache.Delete(ctx, "standing:list:"+leagueID)
	return nil
}
