package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/quota"
)

type QuotaRepository struct {
	mu     sync.Mutex
	grants map[string]quota.Grant
}

func NewQuotaRepository() *QuotaRepository {
	return &QuotaRepository{grants: make(map[string]quota.Grant)}
}

func grantKey(identity string, fixtureID int64, scope string, day time.Time) string {
	return fmt.Sprintf("%s|%d|%s|%s", identity, fixtureID, scope, quota.DayOf(day).Format("2006-01-02"))
}

func (r *QuotaRepository) GetGrant(_ context.Context, identity string, fixtureID int64, scope string, day time.Time) (quota.Grant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	grant, ok := r.grants[grantKey(identity, fixtureID, scope, day)]
	return grant, ok, nil
}

func (r *QuotaRepository) CountGrants(_ context.Context, identity, scope string, day time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := quota.DayOf(day)
	count := 0
	for _, grant := range r.grants {
		if grant.Identity == identity && grant.Scope == scope && grant.Day.Equal(window) {
			count++
		}
	}
	return count, nil
}

func (r *QuotaRepository) CreateGrant(_ context.Context, grant quota.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := grantKey(grant.Identity, grant.FixtureID, grant.Scope, grant.Day)
	if _, exists := r.grants[key]; exists {
		return quota.ErrDuplicateGrant
	}
	grant.Day = quota.DayOf(grant.Day)
	r.grants[key] = grant
	return nil
}
