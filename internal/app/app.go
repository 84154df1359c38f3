package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/matchmindhq/matchmind/external/gemini"
	"github.com/matchmindhq/matchmind/external/sportmonks"
	"github.com/matchmindhq/matchmind/internal/config"
	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	"github.com/matchmindhq/matchmind/internal/domain/fixture"
	"github.com/matchmindhq/matchmind/internal/domain/leaguestanding"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
	"github.com/matchmindhq/matchmind/internal/infrastructure/account/passport"
	cacherepo "github.com/matchmindhq/matchmind/internal/infrastructure/repository/cache"
	"github.com/matchmindhq/matchmind/internal/infrastructure/repository/memory"
	"github.com/matchmindhq/matchmind/internal/infrastructure/repository/postgres"
	"github.com/matchmindhq/matchmind/internal/interfaces/httpapi"
	basecache "github.com/matchmindhq/matchmind/internal/platform/cache"
	idgen "github.com/matchmindhq/matchmind/internal/platform/id"
	"github.com/matchmindhq/matchmind/internal/platform/logging"
	"github.com/matchmindhq/matchmind/internal/platform/resilience"
	"github.com/matchmindhq/matchmind/internal/usecase"
)

// NewHTTPServer wires repositories, upstream clients and services into a
// ready-to-run HTTP server. The returned cleanup closes the database pool
// and must be called after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		fixtureRepo  fixture.Repository
		standingRepo leaguestanding.Repository
		quotaRepo    quota.Repository
		cacheRepo    analysis.CacheRepository
		cleanup      = func() {}
	)

	if cfg.DBURL != "" {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		cleanup = func() { _ = db.Close() }

		fixtureRepo = postgres.NewFixtureRepository(db)
		standingRepo = postgres.NewLeagueStandingRepository(db)
		quotaRepo = postgres.NewQuotaGrantRepository(db)
		cacheRepo = postgres.NewAnalysisCacheRepository(db)
	} else {
		logger.Warn("DB_URL is empty, using in-memory repositories with seed data")
		fixtureRepo = memory.NewFixtureRepository(memory.SeedFixtures())
		standingRepo = memory.NewStandingRepository(memory.SeedStandings())
		quotaRepo = memory.NewQuotaRepository()
		cacheRepo = memory.NewAnalysisCacheRepository()
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		fixtureRepo = cacherepo.NewFixtureRepository(fixtureRepo, store)
		standingRepo = cacherepo.NewStandingRepository(standingRepo, store)
	}

	quotaSvc := usecase.NewQuotaService(quotaRepo, logger)

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is empty, analysis requests will fail upstream")
	}
	invoker := gemini.NewClient(gemini.ClientConfig{
		BaseURL:     cfg.GeminiBaseURL,
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Timeout:     cfg.GeminiTimeout,
		Temperature: cfg.GeminiTemperature,
		Logger:      logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GeminiCircuitEnabled,
			FailureThreshold: cfg.GeminiCircuitFailureCount,
			OpenTimeout:      cfg.GeminiCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GeminiCircuitHalfOpenMaxReq,
		},
	})

	analysisSvc := usecase.NewAnalysisService(
		quotaSvc,
		cacheRepo,
		fixtureRepo,
		standingRepo,
		invoker,
		usecase.AnalysisConfig{
			FreeDailyLimit:    cfg.FreeDailyLimit,
			PremiumDailyLimit: cfg.PremiumDailyLimit,
			CacheTTL:          cfg.AnalysisCacheTTL,
			UpstreamTimeout:   cfg.UpstreamTimeout,
		},
		logger,
	)

	fixtureSvc := usecase.NewFixtureService(fixtureRepo, standingRepo, trackedLeagues(cfg))

	var provider usecase.SportDataProvider
	if cfg.SportMonksEnabled {
		provider = sportmonks.NewClient(sportmonks.ClientConfig{
			BaseURL:    cfg.SportMonksBaseURL,
			Token:      cfg.SportMonksToken,
			Timeout:    cfg.SportMonksTimeout,
			MaxRetries: cfg.SportMonksMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SportMonksCircuitEnabled,
				FailureThreshold: cfg.SportMonksCircuitFailureCount,
				OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
			},
		})
	}
	syncSvc := usecase.NewSyncService(
		provider,
		fixtureRepo,
		standingRepo,
		idgen.NewRandomGenerator(),
		usecase.SyncConfig{
			Enabled:          cfg.SportMonksEnabled,
			SeasonIDByLeague: cfg.SportMonksSeasonIDByLeague,
			MaxWorkers:       cfg.SyncMaxWorkers,
		},
		logger,
	)

	verifier := passport.NewClient(passport.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.PassportTimeout},
		BaseURL:        cfg.PassportBaseURL,
		IntrospectPath: cfg.PassportIntrospectPath,
		AdminKey:       cfg.PassportAdminKey,
		CacheTTL:       cfg.PassportCacheTTL,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.PassportCircuitEnabled,
			FailureThreshold: cfg.PassportCircuitFailureCount,
			OpenTimeout:      cfg.PassportCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.PassportCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(
		analysisSvc,
		fixtureSvc,
		quotaSvc,
		syncSvc,
		httpapi.QuotaLimits{Free: cfg.FreeDailyLimit, Premium: cfg.PremiumDailyLimit},
		logger,
	)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// trackedLeagues decides which league ids the browse endpoints accept.
// With a season map configured the deployment tracks those leagues;
// otherwise the seed leagues keep local development usable.
func trackedLeagues(cfg config.Config) []string {
	if len(cfg.SportMonksSeasonIDByLeague) > 0 {
		out := make([]string, 0, len(cfg.SportMonksSeasonIDByLeague))
		for leagueID := range cfg.SportMonksSeasonIDByLeague {
			out = append(out, leagueID)
		}
		return out
	}

	return []string{memory.LeagueIDLiga1Indonesia, memory.LeagueIDPremierLeague}
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
