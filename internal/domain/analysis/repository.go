package analysis

import "context"

// CacheRepository stores computed analyses. Get must treat expired
// entries as absent; Put overwrites any previous entry for the same
// (fixture, scope, locale) key.
type CacheRepository interface {
	Get(ctx context.Context, fixtureID int64, scope, locale string) (CacheEntry, bool, error)
	Put(ctx context.Context, entry CacheEntry) error
}
