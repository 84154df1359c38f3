package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/matchmindhq/matchmind/internal/domain/analysis"
)

type AnalysisCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]analysis.CacheEntry
	now     func() time.Time
}

func NewAnalysisCacheRepository() *AnalysisCacheRepository {
	return &AnalysisCacheRepository{
		entries: make(map[string]analysis.CacheEntry),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func entryKey(fixtureID int64, scope, locale string) string {
	return fmt.Sprintf("%d|%s|%s", fixtureID, scope, locale)
}

func (r *AnalysisCacheRepository) Get(_ context.Context, fixtureID int64, scope, locale string) (analysis.CacheEntry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[entryKey(fixtureID, scope, locale)]
	if !ok {
		return analysis.CacheEntry{}, false, nil
	}
	if !entry.ExpiresAt.After(r.now()) {
		return analysis.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

func (r *AnalysisCacheRepository) Put(_ context.Context, entry analysis.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[entryKey(entry.FixtureID, entry.Scope, entry.Locale)] = entry
	return nil
}
