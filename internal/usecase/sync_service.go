package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"

	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
	"github.com/matchmindhq/matchmind/internal/platform/id"
	"github.com/matchmindhq/matchmind/internal/platform/logging"
)

// SportDataProvider fetches schedule and table data for one season.
type SportDataProvider interface {
	FetchFixturesBySeason(ctx context.Context, seasonID int64) ([]ExternalFixture, error)
	FetchStandingsBySeason(ctx context.Context, seasonID int64) ([]ExternalStanding, error)
}

type ExternalFixture struct {
	ExternalID    int64
	Round         int
	HomeTeamName  string
	AwayTeamName  string
	HomeTeamRefID int64
	AwayTeamRefID int64
	KickoffAt     time.Time
	Venue         string
	Status        string
	HomeScore     *int
	AwayScore     *int
}

type ExternalStanding struct {
	TeamRefID       int64
	TeamName        string
	Position        int
	Played          int
	Won             int
	Draw            int
	Lost            int
	GoalsFor        int
	GoalsAgainst    int
	GoalDifference  int
	Points          int
	Form            string
	SourceUpdatedAt *time.Time
}

type SyncConfig struct {
	Enabled          bool
	SeasonIDByLeague map[string]int64
	MaxWorkers       int
}

type SyncInput struct {
	// Leagues narrows the run; empty means every configured league.
	Leagues    []string
	MaxWorkers int
}

type SyncResult struct {
	RunID        string           `json:"run_id"`
	LeagueCount  int              `json:"league_count"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	WorkerCount  int              `json:"worker_count"`
	Leagues      []SyncLeagueItem `json:"leagues"`
}

type SyncLeagueItem struct {
	LeagueID      string `json:"league_id"`
	SeasonID      int64  `json:"season_id"`
	FixtureCount  int    `json:"fixture_count"`
	StandingCount int    `json:"standing_count"`
	DurationMs    int64  `json:"duration_ms"`
	Status        string `json:"status"`
	Message       string `json:"message,omitempty"`
}

const (
	syncStatusSuccess = "success"
	syncStatusFailed  = "failed"
)

// SyncService refreshes fixtures and standings from the sport data
// provider. Leagues run on a bounded worker pool; within each league the
// fixture and standing fetches run in parallel.
type SyncService struct {
	provider     SportDataProvider
	fixtureRepo  fixture.Repository
	standingRepo leaguestanding.Repository
	idGen        id.Generator
	cfg          SyncConfig
	logger       *logging.Logger
}

func NewSyncService(
	provider SportDataProvider,
	fixtureRepo fixture.Repository,
	standingRepo leaguestanding.Repository,
	idGen id.Generator,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = id.NewRandomGenerator()
	}

	return &SyncService{
		provider:     provider,
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		idGen:        idGen,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *SyncService) Run(ctx context.Context, input SyncInput) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.Run")
	defer span.End()

	if !s.cfg.Enabled {
		return SyncResult{}, fmt.Errorf("%w: sport data sync is disabled (SPORTMONKS_ENABLED=false)", ErrDependencyUnavailable)
	}
	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: sport data provider is not configured", ErrDependencyUnavailable)
	}

	targets, err := s.resolveTargets(input.Leagues)
	if err != nil {
		return SyncResult{}, err
	}

	runID, err := s.idGen.NewID()
	if err != nil {
		return SyncResult{}, fmt.Errorf("generate sync run id: %w", err)
	}

	workerCount := normalizeSyncWorkerCount(input.MaxWorkers, s.cfg.MaxWorkers, len(targets))
	result := SyncResult{
		RunID:       runID,
		LeagueCount: len(targets),
		WorkerCount: workerCount,
		Leagues:     make([]SyncLeagueItem, 0, len(targets)),
	}
	if len(targets) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan SyncLeagueItem, len(targets))
	var successCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	for _, target := range targets {
		target := target
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := s.syncLeague(ctx, target.leagueID, target.seasonID)
			row.DurationMs = time.Since(start).Milliseconds()

			if row.Status == syncStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit league sync to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	s.logger.InfoContext(ctx, "sport data sync finished",
		"run_id", runID,
		"league_count", result.LeagueCount,
		"success_count", result.SuccessCount,
		"failed_count", result.FailedCount,
	)

	return result, nil
}

func (s *SyncService) syncLeague(ctx context.Context, leagueID string, seasonID int64) SyncLeagueItem {
	row := SyncLeagueItem{LeagueID: leagueID, SeasonID: seasonID}

	var (
		fixtures     []ExternalFixture
		standings    []ExternalStanding
		fixturesErr  error
		standingsErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		fixtures, fixturesErr = s.provider.FetchFixturesBySeason(ctx, seasonID)
	})
	wg.Go(func() {
		standings, standingsErr = s.provider.FetchStandingsBySeason(ctx, seasonID)
	})
	wg.Wait()

	if fixturesErr != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("fetch fixtures season_id=%d: %v", seasonID, fixturesErr)
		return row
	}
	if standingsErr != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("fetch standings season_id=%d: %v", seasonID, standingsErr)
		return row
	}

	mappedFixtures := mapExternalFixturesToDomain(leagueID, fixtures)
	if len(mappedFixtures) > 0 {
		if err := s.fixtureRepo.UpsertFixtures(ctx, mappedFixtures); err != nil {
			row.Status = syncStatusFailed
			row.Message = fmt.Sprintf("upsert fixtures: %v", err)
			return row
		}
	}

	mappedStandings := mapExternalStandingsToDomain(leagueID, standings)
	if err := s.standingRepo.ReplaceByLeague(ctx, leagueID, mappedStandings); err != nil {
		row.Status = syncStatusFailed
		row.Message = fmt.Sprintf("replace standings: %v", err)
		return row
	}

	row.FixtureCount = len(mappedFixtures)
	row.StandingCount = len(mappedStandings)
	row.Status = syncStatusSuccess
	return row
}

type syncLeagueTarget struct {
	leagueID string
	seasonID int64
}

func (s *SyncService) resolveTargets(requested []string) ([]syncLeagueTarget, error) {
	wanted := make(map[string]struct{}, len(requested))
	for _, item := range requested {
		if item = strings.TrimSpace(item); item != "" {
			wanted[item] = struct{}{}
		}
	}

	out := make([]syncLeagueTarget, 0, len(s.cfg.SeasonIDByLeague))
	for leagueID, seasonID := range s.cfg.SeasonIDByLeague {
		leagueID = strings.TrimSpace(leagueID)
		if leagueID == "" || seasonID <= 0 {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[leagueID]; !ok {
				continue
			}
			delete(wanted, leagueID)
		}
		out = append(out, syncLeagueTarget{leagueID: leagueID, seasonID: seasonID})
	}

	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for leagueID := range wanted {
			missing = append(missing, leagueID)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: no season mapping for leagues %s", ErrNotFound, strings.Join(missing, ","))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].leagueID < out[j].leagueID
	})
	return out, nil
}

func normalizeSyncWorkerCount(requested, configured, taskCount int) int {
	value := requested
	if value <= 0 {
		value = configured
	}
	if value <= 0 {
		value = 2
	}
	if value > 4 {
		value = 4
	}
	if taskCount > 0 && value > taskCount {
		value = taskCount
	}
	if value < 1 {
		value = 1
	}
	return value
}

func mapExternalFixturesToDomain(leagueID string, items []ExternalFixture) []fixture.Fixture {
	if len(items) == 0 {
		return nil
	}

	out := make([]fixture.Fixture, 0, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 || item.KickoffAt.IsZero() {
			continue
		}

		round := item.Round
		if round <= 0 {
			round = 1
		}

		out = append(out, fixture.Fixture{
			ID:         item.ExternalID,
			LeagueID:   leagueID,
			Round:      round,
			HomeTeam:   strings.TrimSpace(item.HomeTeamName),
			AwayTeam:   strings.TrimSpace(item.AwayTeamName),
			HomeTeamID: item.HomeTeamRefID,
			AwayTeamID: item.AwayTeamRefID,
			KickoffAt:  item.KickoffAt.UTC(),
			Venue:      strings.TrimSpace(item.Venue),
			HomeScore:  cloneIntPtr(item.HomeScore),
			AwayScore:  cloneIntPtr(item.AwayScore),
			Status:     fixture.NormalizeStatus(item.Status),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

func mapExternalStandingsToDomain(leagueID string, items []ExternalStanding) []leaguestanding.Standing {
	if len(items) == 0 {
		return []leaguestanding.Standing{}
	}

	out := make([]leaguestanding.Standing, 0, len(items))
	for _, item := range items {
		if item.TeamRefID <= 0 || item.Position <= 0 {
			continue
		}

		goalDifference := item.GoalDifference
		if goalDifference == 0 && (item.GoalsFor != 0 || item.GoalsAgainst != 0) {
			goalDifference = item.GoalsFor - item.GoalsAgainst
		}

		out = append(out, leaguestanding.Standing{
			LeagueID:        leagueID,
			TeamID:          item.TeamRefID,
			TeamName:        strings.TrimSpace(item.TeamName),
			Position:        item.Position,
			Played:          maxInt(item.Played, 0),
			Won:             maxInt(item.Won, 0),
			Draw:            maxInt(item.Draw, 0),
			Lost:            maxInt(item.Lost, 0),
			GoalsFor:        maxInt(item.GoalsFor, 0),
			GoalsAgainst:    maxInt(item.GoalsAgainst, 0),
			GoalDifference:  goalDifference,
			Points:          maxInt(item.Points, 0),
			Form:            strings.TrimSpace(item.Form),
			SourceUpdatedAt: cloneTimePtr(item.SourceUpdatedAt),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].TeamID < out[j].TeamID
	})

	return out
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	v := value.UTC()
	return &v
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
