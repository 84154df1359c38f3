package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
	"github.com/matchmindhq/matchmind/internal/platform/logging"
)

// UpstreamInvoker sends a prompt to the text-generation provider.
type UpstreamInvoker interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type quotaAdmitter interface {
	CheckAndAdmit(ctx context.Context, identity string, fixtureID int64, scope string, dailyLimit int) (quota.Decision, error)
}

type AnalysisConfig struct {
	FreeDailyLimit    int
	PremiumDailyLimit int
	CacheTTL          time.Duration
	UpstreamTimeout   time.Duration
}

type AnalysisInput struct {
	Identity  string
	FixtureID int64
	Scope     string
	Locale    string
	Premium   bool
}

type AnalysisOutput struct {
	Analysis  analysis.Analysis
	CacheHit  bool
	Remaining int
	Limit     int
	ResetsAt  time.Time
}

// AnalysisService is the request gateway: it charges quota, consults the
// result cache, invokes the upstream model, extracts a usable payload and
// caches it for subsequent callers.
type AnalysisService struct {
	quota        quotaAdmitter
	cacheRepo    analysis.CacheRepository
	fixtureRepo  fixture.Repository
	standingRepo leaguestanding.Repository
	invoker      UpstreamInvoker
	cfg          AnalysisConfig
	logger       *logging.Logger
	now          NowFunc
}

func NewAnalysisService(
	quotaSvc quotaAdmitter,
	cacheRepo analysis.CacheRepository,
	fixtureRepo fixture.Repository,
	standingRepo leaguestanding.Repository,
	invoker UpstreamInvoker,
	cfg AnalysisConfig,
	logger *logging.Logger,
) *AnalysisService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AnalysisService{
		quota:        quotaSvc,
		cacheRepo:    cacheRepo,
		fixtureRepo:  fixtureRepo,
		standingRepo: standingRepo,
		invoker:      invoker,
		cfg:          cfg,
		logger:       logger,
		now:          defaultNow,
	}
}

// Analyze runs the full gateway flow for one fixture. Quota is charged
// before the cache lookup, so a cache hit still spends the daily unit for
// a fixture the identity has not seen that day.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalysisInput) (AnalysisOutput, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.Analyze")
	defer span.End()

	input.Identity = strings.TrimSpace(input.Identity)
	if input.Identity == "" {
		return AnalysisOutput{}, fmt.Errorf("%w: identity is required", ErrInvalidInput)
	}
	if input.FixtureID <= 0 {
		return AnalysisOutput{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}
	if !analysis.ValidScope(input.Scope) {
		return AnalysisOutput{}, fmt.Errorf("%w: unknown scope %q", ErrInvalidInput, input.Scope)
	}
	locale := analysis.NormalizeLocale(input.Locale)

	fx, exists, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return AnalysisOutput{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return AnalysisOutput{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, input.FixtureID)
	}

	limit := s.cfg.FreeDailyLimit
	if input.Premium {
		limit = s.cfg.PremiumDailyLimit
	}

	decision, err := s.quota.CheckAndAdmit(ctx, input.Identity, input.FixtureID, input.Scope, limit)
	if err != nil {
		return AnalysisOutput{}, fmt.Errorf("check quota: %w", err)
	}
	if !decision.Admitted {
		return AnalysisOutput{}, &quota.LimitExceededError{
			Limit:    limit,
			ResetsAt: decision.ResetsAt,
		}
	}

	out := AnalysisOutput{
		Remaining: decision.Remaining,
		Limit:     limit,
		ResetsAt:  decision.ResetsAt,
	}

	// Cache reads fail open: a broken cache slows requests down but must
	// not take the endpoint with it.
	entry, hit, err := s.cacheRepo.Get(ctx, input.FixtureID, input.Scope, locale)
	if err != nil {
		s.logger.WarnContext(ctx, "analysis cache read failed",
			"fixture_id", input.FixtureID,
			"scope", input.Scope,
			"error", err,
		)
	} else if hit {
		out.Analysis = entry.Payload
		out.CacheHit = true
		return out, nil
	}

	prompt := BuildPrompt(s.buildMatchContext(ctx, fx), input.Scope, locale)

	invokeCtx := ctx
	if s.cfg.UpstreamTimeout > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		defer cancel()
	}

	raw, err := s.invoker.GenerateText(invokeCtx, prompt)
	if err != nil {
		return AnalysisOutput{}, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	if strings.TrimSpace(raw) == "" {
		return AnalysisOutput{}, fmt.Errorf("%w: empty response", ErrUpstreamFailure)
	}

	res := analysis.Parse(raw)
	if !res.OK {
		s.logger.WarnContext(ctx, "model output unusable, serving defaults",
			"fixture_id", input.FixtureID,
			"scope", input.Scope,
			"response_len", len(raw),
		)
	} else if res.Strategy != analysis.StrategyStrict {
		s.logger.InfoContext(ctx, "model output repaired",
			"fixture_id", input.FixtureID,
			"scope", input.Scope,
			"strategy", res.Strategy,
		)
	}

	out.Analysis = analysis.Enrich(res, locale)

	now := s.now()
	entry = analysis.CacheEntry{
		FixtureID:  input.FixtureID,
		Scope:      input.Scope,
		Locale:     locale,
		Payload:    out.Analysis,
		ComputedAt: now,
		ExpiresAt:  now.Add(s.cfg.CacheTTL),
		MatchDay:   fx.KickoffAt,
	}
	if err := s.cacheRepo.Put(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "analysis cache write failed",
			"fixture_id", input.FixtureID,
			"scope", input.Scope,
			"error", err,
		)
	}

	return out, nil
}

// buildMatchContext folds league-table context into the prompt material.
// Standings are best effort: a failed read just yields a thinner prompt.
func (s *AnalysisService) buildMatchContext(ctx context.Context, fx fixture.Fixture) MatchContext {
	mc := MatchContext{
		HomeTeam:  fx.HomeTeam,
		AwayTeam:  fx.AwayTeam,
		League:    fx.LeagueID,
		KickoffAt: fx.KickoffAt,
		Venue:     fx.Venue,
	}
	if s.standingRepo == nil {
		return mc
	}

	standings, err := s.standingRepo.ListByLeague(ctx, fx.LeagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "standings lookup failed for prompt context",
			"league_id", fx.LeagueID,
			"error", err,
		)
		return mc
	}
	for _, row := range standings {
		if row.TeamID <= 0 {
			continue
		}
		switch row.TeamID {
		case fx.HomeTeamID:
			mc.HomePosition = row.Position
			mc.HomeForm = row.Form
		case fx.AwayTeamID:
			mc.AwayPosition = row.Position
			mc.AwayForm = row.Form
		}
	}

	return mc
}
