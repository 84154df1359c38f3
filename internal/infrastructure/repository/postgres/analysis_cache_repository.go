package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/matchmindhq/matchmind/internal/domain/analysis"
	qb "github.com/matchmindhq/matchmind/internal/platform/querybuilder"
)

var cacheJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type AnalysisCacheRepository struct {
	db *sqlx.DB
}

func NewAnalysisCacheRepository(db *sqlx.DB) *AnalysisCacheRepository {
	return &AnalysisCacheRepository{db: db}
}

// Get returns only live entries; expired rows stay in place until the
// next Put for the same key overwrites them.
func (r *AnalysisCacheRepository) Get(ctx context.Context, fixtureID int64, scope, locale string) (analysis.CacheEntry, bool, error) {
	query, args, err := qb.Select("*").From("analysis_cache").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("scope", scope),
			qb.Eq("locale", locale),
			qb.Expr("expires_at > NOW()"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return analysis.CacheEntry{}, false, fmt.Errorf("build select analysis cache query: %w", err)
	}

	var row analysisCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return analysis.CacheEntry{}, false, nil
		}
		return analysis.CacheEntry{}, false, fmt.Errorf("select analysis cache: %w", err)
	}

	var payload analysis.Analysis
	if err := cacheJSON.Unmarshal(row.Payload, &payload); err != nil {
		return analysis.CacheEntry{}, false, fmt.Errorf("decode cached analysis payload: %w", err)
	}

	return analysis.CacheEntry{
		FixtureID:  row.FixtureID,
		Scope:      row.Scope,
		Locale:     row.Locale,
		Payload:    payload,
		ComputedAt: row.ComputedAt.UTC(),
		ExpiresAt:  row.ExpiresAt.UTC(),
		MatchDay:   row.MatchDay.UTC(),
	}, true, nil
}

func (r *AnalysisCacheRepository) Put(ctx context.Context, entry analysis.CacheEntry) error {
	payload, err := cacheJSON.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("encode analysis payload: %w", err)
	}

	insertModel := analysisCacheInsertModel{
		FixtureID:  entry.FixtureID,
		Scope:      entry.Scope,
		Locale:     entry.Locale,
		Payload:    payload,
		ComputedAt: entry.ComputedAt.UTC(),
		ExpiresAt:  entry.ExpiresAt.UTC(),
		MatchDay:   entry.MatchDay.UTC(),
	}
	query, args, err := qb.InsertModel("analysis_cache", insertModel, `ON CONFLICT (fixture_id, scope, locale)
DO UPDATE SET
    payload = EXCLUDED.payload,
    computed_at = EXCLUDED.computed_at,
    expires_at = EXCLUDED.expires_at,
    match_day = EXCLUDED.match_day`)
	if err != nil {
		return fmt.Errorf("build upsert analysis cache query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert analysis cache fixture=%d scope=%s: %w", entry.FixtureID, entry.Scope, err)
	}
	return nil
}
