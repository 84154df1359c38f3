package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matchmindhq/matchmind/internal/domain/quota"
	qb "github.com/matchmindhq/matchmind/internal/platform/querybuilder"
)

type QuotaGrantRepository struct {
	db *sqlx.DB
}

func NewQuotaGrantRepository(db *sqlx.DB) *QuotaGrantRepository {
	return &QuotaGrantRepository{db: db}
}

func (r *QuotaGrantRepository) GetGrant(ctx context.Context, identity string, fixtureID int64, scope string, day time.Time) (quota.Grant, bool, error) {
	query, args, err := qb.Select("*").From("quota_grants").
		Where(
			qb.Eq("identity", identity),
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("scope", scope),
			qb.Eq("day", quota.DayOf(day)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return quota.Grant{}, false, fmt.Errorf("build select quota grant query: %w", err)
	}

	var row quotaGrantTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return quota.Grant{}, false, nil
		}
		return quota.Grant{}, false, fmt.Errorf("select quota grant: %w", err)
	}

	return quota.Grant{
		Identity:  row.Identity,
		FixtureID: row.FixtureID,
		Scope:     row.Scope,
		Day:       row.Day.UTC(),
		GrantedAt: row.GrantedAt.UTC(),
	}, true, nil
}

func (r *QuotaGrantRepository) CountGrants(ctx context.Context, identity, scope string, day time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("quota_grants").
		Where(
			qb.Eq("identity", identity),
			qb.Eq("scope", scope),
			qb.Eq("day", quota.DayOf(day)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count quota grants query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count quota grants: %w", err)
	}
	return count, nil
}

// CreateGrant relies on the unique (identity, fixture_id, scope, day)
// index: the losing side of a race gets zero affected rows and reports
// quota.ErrDuplicateGrant.
func (r *QuotaGrantRepository) CreateGrant(ctx context.Context, grant quota.Grant) error {
	insertModel := quotaGrantInsertModel{
		Identity:  grant.Identity,
		FixtureID: grant.FixtureID,
		Scope:     grant.Scope,
		Day:       quota.DayOf(grant.Day),
		GrantedAt: grant.GrantedAt.UTC(),
	}
	query, args, err := qb.InsertModel("quota_grants", insertModel, "ON CONFLICT (identity, fixture_id, scope, day) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert quota grant query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert quota grant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert quota grant rows affected: %w", err)
	}
	if affected == 0 {
		return quota.ErrDuplicateGrant
	}
	return nil
}
