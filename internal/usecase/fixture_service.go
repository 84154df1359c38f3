package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
)

// FixtureService serves the browse endpoints: fixture lists and league
// tables for the leagues this deployment is configured to track.
type FixtureService struct {
	fixtureRepo  fixture.Repository
	standingRepo leaguestanding.Repository
	leagues      map[string]struct{}
}

func NewFixtureService(fixtureRepo fixture.Repository, standingRepo leaguestanding.Repository, leagueIDs []string) *FixtureService {
	leagues := make(map[string]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		if id = strings.TrimSpace(id); id != "" {
			leagues[id] = struct{}{}
		}
	}

	return &FixtureService{
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		leagues:      leagues,
	}
}

func (s *FixtureService) ListByLeague(ctx context.Context, leagueID string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByLeague")
	defer span.End()

	leagueID, err := s.resolveLeague(leagueID)
	if err != nil {
		return nil, err
	}

	fixtures, err := s.fixtureRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by league: %w", err)
	}

	sort.SliceStable(fixtures, func(i, j int) bool {
		if !fixtures[i].KickoffAt.Equal(fixtures[j].KickoffAt) {
			return fixtures[i].KickoffAt.Before(fixtures[j].KickoffAt)
		}
		return fixtures[i].ID < fixtures[j].ID
	})

	return fixtures, nil
}

func (s *FixtureService) ListStandingsByLeague(ctx context.Context, leagueID string) ([]leaguestanding.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListStandingsByLeague")
	defer span.End()

	leagueID, err := s.resolveLeague(leagueID)
	if err != nil {
		return nil, err
	}

	standings, err := s.standingRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league standings: %w", err)
	}

	return standings, nil
}

func (s *FixtureService) resolveLeague(leagueID string) (string, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return "", fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if _, ok := s.leagues[leagueID]; !ok {
		return "", fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return leagueID, nil
}
