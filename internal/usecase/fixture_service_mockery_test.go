package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
	fixturemock "github.com/matchmindhq/matchmind/internal/mocks/domain/fixture"
	standingmock "github.com/matchmindhq/matchmind/internal/mocks/domain/leaguestanding"
)

func TestFixtureService_ListByLeague_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtureRepo := fixturemock.NewRepository(t)
	standingRepo := standingmock.NewRepository(t)

	leagueID := "idn-liga-1"
	service := NewFixtureService(fixtureRepo, standingRepo, []string{leagueID})
	expectedFixtures := []fixture.Fixture{
		{
			ID:        900101,
			LeagueID:  leagueID,
			Round:     1,
			HomeTeam:  "Persija Jakarta",
			AwayTeam:  "Persib Bandung",
			KickoffAt: time.Date(2026, 9, 12, 19, 0, 0, 0, time.UTC),
			Venue:     "Jakarta International Stadium",
		},
	}

	fixtureRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), leagueID).
		Return(expectedFixtures, nil).
		Once()

	got, err := service.ListByLeague(ctx, leagueID)
	if err != nil {
		t.Fatalf("list fixtures by league: %v", err)
	}
	if len(got) != len(expectedFixtures) {
		t.Fatalf("unexpected fixture count: got=%d want=%d", len(got), len(expectedFixtures))
	}
	if got[0].ID != expectedFixtures[0].ID {
		t.Fatalf("unexpected fixture id: got=%d want=%d", got[0].ID, expectedFixtures[0].ID)
	}
}

func TestFixtureService_ListByLeague_UnknownLeagueUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtureRepo := fixturemock.NewRepository(t)
	standingRepo := standingmock.NewRepository(t)

	service := NewFixtureService(fixtureRepo, standingRepo, []string{"idn-liga-1"})

	_, err := service.ListByLeague(ctx, "missing-league")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureService_ListStandingsByLeague_RepositoryErrorUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fixtureRepo := fixturemock.NewRepository(t)
	standingRepo := standingmock.NewRepository(t)

	leagueID := "idn-liga-1"
	service := NewFixtureService(fixtureRepo, standingRepo, []string{leagueID})

	repoErr := errors.New("connection reset")
	standingRepo.
		On("ListByLeague", mock.MatchedBy(func(v context.Context) bool { return v != nil }), leagueID).
		Return([]leaguestanding.Standing(nil), repoErr).
		Once()

	_, err := service.ListStandingsByLeague(ctx, leagueID)
	if !errors.Is(err, repoErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}
