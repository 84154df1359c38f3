package memory

import (
	"context"
	"sync"

	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
)

type StandingRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]leaguestanding.Standing
}

func NewStandingRepository(standings []leaguestanding.Standing) *StandingRepository {
	byLeague := make(map[string][]leaguestanding.Standing)
	for _, item := range standings {
		byLeague[item.LeagueID] = append(byLeague[item.LeagueID], item)
	}
	return &StandingRepository{byLeague: byLeague}
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.byLeague[leagueID]
	out := make([]leaguestanding.Standing, 0, len(items))
	out = append(out, items...)
	return out, nil
}

func (r *StandingRepository) ReplaceByLeague(_ context.Context, leagueID string, standings []leaguestanding.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make([]leaguestanding.Standing, 0, len(standings))
	for _, item := range standings {
		item.LeagueID = leagueID
		replacement = append(replacement, item)
	}
	r.byLeague[leagueID] = replacement
	return nil
}
