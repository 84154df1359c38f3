package postgres

import "time"

type analysisCacheTableModel struct {
	ID         int64     `db:"id"`
	FixtureID  int64     `db:"fixture_id"`
	Scope      string    `db:"scope"`
	Locale     string    `db:"locale"`
	Payload    []byte    `db:"payload"`
	ComputedAt time.Time `db:"computed_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	MatchDay   time.Time `db:"match_day"`
}

type analysisCacheInsertModel struct {
	FixtureID  int64     `db:"fixture_id"`
	Scope      string    `db:"scope"`
	Locale     string    `db:"locale"`
	Payload    []byte    `db:"payload"`
	ComputedAt time.Time `db:"computed_at"`
	ExpiresAt  time.Time `db:"expires_at"`
	MatchDay   time.Time `db:"match_day"`
}
