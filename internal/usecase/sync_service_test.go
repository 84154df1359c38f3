package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeSportDataProvider struct {
	mu           sync.Mutex
	fixtures     map[int64][]ExternalFixture
	standings    map[int64][]ExternalStanding
	fixturesErr  map[int64]error
	standingsErr map[int64]error
	fixtureCalls int
}

func newFakeSportDataProvider() *fakeSportDataProvider {
	return &fakeSportDataProvider{
		fixtures:     make(map[int64][]ExternalFixture),
		standings:    make(map[int64][]ExternalStanding),
		fixturesErr:  make(map[int64]error),
		standingsErr: make(map[int64]error),
	}
}

func (p *fakeSportDataProvider) FetchFixturesBySeason(_ context.Context, seasonID int64) ([]ExternalFixture, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fixtureCalls++
	if err := p.fixturesErr[seasonID]; err != nil {
		return nil, err
	}
	return p.fixtures[seasonID], nil
}

func (p *fakeSportDataProvider) FetchStandingsBySeason(_ context.Context, seasonID int64) ([]ExternalStanding, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.standingsErr[seasonID]; err != nil {
		return nil, err
	}
	return p.standings[seasonID], nil
}

func externalFixtureAt(id int64, round int, kickoff time.Time) ExternalFixture {
	return ExternalFixture{
		ExternalID:    id,
		Round:         round,
		HomeTeamName:  "Home FC",
		AwayTeamName:  "Away FC",
		HomeTeamRefID: id * 10,
		AwayTeamRefID: id*10 + 1,
		KickoffAt:     kickoff,
		Status:        "NS",
	}
}

func TestSyncServiceRunSuccess(t *testing.T) {
	provider := newFakeSportDataProvider()
	kickoff := time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC)
	provider.fixtures[100] = []ExternalFixture{
		externalFixtureAt(2, 1, kickoff.Add(2*time.Hour)),
		externalFixtureAt(1, 1, kickoff),
	}
	provider.standings[100] = []ExternalStanding{
		{TeamRefID: 10, TeamName: "Home FC", Position: 2, Played: 10, Points: 20},
		{TeamRefID: 20, TeamName: "Away FC", Position: 1, Played: 10, Points: 24, GoalsFor: 18, GoalsAgainst: 9},
	}
	provider.fixtures[200] = []ExternalFixture{externalFixtureAt(9, 3, kickoff)}
	provider.standings[200] = nil

	fixtureRepo := newFakeFixtureRepo()
	standingRepo := newFakeStandingRepo()
	svc := NewSyncService(provider, fixtureRepo, standingRepo, nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100, "laliga": 200},
		MaxWorkers:       2,
	}, nil)

	result, err := svc.Run(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if result.LeagueCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Leagues) != 2 || result.Leagues[0].LeagueID != "epl" || result.Leagues[1].LeagueID != "laliga" {
		t.Fatalf("expected sorted league rows, got %+v", result.Leagues)
	}
	if result.Leagues[0].FixtureCount != 2 || result.Leagues[0].StandingCount != 2 {
		t.Fatalf("unexpected epl row: %+v", result.Leagues[0])
	}

	fixtures, err := fixtureRepo.ListByLeague(t.Context(), "epl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 stored fixtures, got %d", len(fixtures))
	}

	standings, err := standingRepo.ListByLeague(t.Context(), "epl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(standings) != 2 || standings[0].Position != 1 {
		t.Fatalf("expected standings sorted by position, got %+v", standings)
	}
	if standings[0].GoalDifference != 9 {
		t.Fatalf("goal difference not derived, got %d", standings[0].GoalDifference)
	}
}

func TestSyncServiceFailedLeagueIsIsolated(t *testing.T) {
	provider := newFakeSportDataProvider()
	kickoff := time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC)
	provider.fixtures[100] = []ExternalFixture{externalFixtureAt(1, 1, kickoff)}
	provider.fixturesErr[200] = errors.New("provider 500")

	svc := NewSyncService(provider, newFakeFixtureRepo(), newFakeStandingRepo(), nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100, "laliga": 200},
	}, nil)

	result, err := svc.Run(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("one failed league must not fail the run: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	for _, row := range result.Leagues {
		if row.LeagueID == "laliga" {
			if row.Status != syncStatusFailed || row.Message == "" {
				t.Fatalf("expected failed laliga row with message, got %+v", row)
			}
		}
	}
}

func TestSyncServiceStandingWriteFailure(t *testing.T) {
	provider := newFakeSportDataProvider()
	provider.fixtures[100] = []ExternalFixture{externalFixtureAt(1, 1, time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC))}

	standingRepo := newFakeStandingRepo()
	standingRepo.replaceErr = errors.New("db down")

	svc := NewSyncService(provider, newFakeFixtureRepo(), standingRepo, nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100},
	}, nil)

	result, err := svc.Run(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FailedCount != 1 || result.Leagues[0].Status != syncStatusFailed {
		t.Fatalf("expected failed row on standing write error, got %+v", result)
	}
}

func TestSyncServiceRequestedSubset(t *testing.T) {
	provider := newFakeSportDataProvider()
	provider.fixtures[100] = []ExternalFixture{externalFixtureAt(1, 1, time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC))}

	svc := NewSyncService(provider, newFakeFixtureRepo(), newFakeStandingRepo(), nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100, "laliga": 200},
	}, nil)

	result, err := svc.Run(t.Context(), SyncInput{Leagues: []string{"epl"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.LeagueCount != 1 || result.Leagues[0].LeagueID != "epl" {
		t.Fatalf("expected epl only, got %+v", result)
	}
}

func TestSyncServiceUnknownLeague(t *testing.T) {
	svc := NewSyncService(newFakeSportDataProvider(), newFakeFixtureRepo(), newFakeStandingRepo(), nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100},
	}, nil)

	_, err := svc.Run(t.Context(), SyncInput{Leagues: []string{"bundesliga"}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSyncServiceDisabled(t *testing.T) {
	svc := NewSyncService(newFakeSportDataProvider(), newFakeFixtureRepo(), newFakeStandingRepo(), nil, SyncConfig{
		Enabled: false,
	}, nil)

	_, err := svc.Run(t.Context(), SyncInput{})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSyncServiceSkipsInvalidRows(t *testing.T) {
	provider := newFakeSportDataProvider()
	kickoff := time.Date(2026, 3, 21, 15, 0, 0, 0, time.UTC)
	provider.fixtures[100] = []ExternalFixture{
		externalFixtureAt(1, 1, kickoff),
		{ExternalID: 0, KickoffAt: kickoff},
		{ExternalID: 2},
	}
	provider.standings[100] = []ExternalStanding{
		{TeamRefID: 10, Position: 1},
		{TeamRefID: 0, Position: 2},
		{TeamRefID: 11, Position: 0},
	}

	fixtureRepo := newFakeFixtureRepo()
	standingRepo := newFakeStandingRepo()
	svc := NewSyncService(provider, fixtureRepo, standingRepo, nil, SyncConfig{
		Enabled:          true,
		SeasonIDByLeague: map[string]int64{"epl": 100},
	}, nil)

	result, err := svc.Run(t.Context(), SyncInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Leagues[0].FixtureCount != 1 || result.Leagues[0].StandingCount != 1 {
		t.Fatalf("invalid rows must be skipped, got %+v", result.Leagues[0])
	}
}

func TestNormalizeSyncWorkerCount(t *testing.T) {
	tests := []struct {
		name       string
		requested  int
		configured int
		taskCount  int
		want       int
	}{
		{name: "default", requested: 0, configured: 0, taskCount: 10, want: 2},
		{name: "configured wins over default", requested: 0, configured: 3, taskCount: 10, want: 3},
		{name: "request wins over configured", requested: 1, configured: 3, taskCount: 10, want: 1},
		{name: "capped at four", requested: 16, configured: 0, taskCount: 10, want: 4},
		{name: "capped at task count", requested: 4, configured: 0, taskCount: 2, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeSyncWorkerCount(tt.requested, tt.configured, tt.taskCount); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}
