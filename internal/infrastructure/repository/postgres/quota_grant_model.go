package postgres

import "time"

type quotaGrantTableModel struct {
	ID        int64     `db:"id"`
	Identity  string    `db:"identity"`
	FixtureID int64     `db:"fixture_id"`
	Scope     string    `db:"scope"`
	Day       time.Time `db:"day"`
	GrantedAt time.Time `db:"granted_at"`
}

type quotaGrantInsertModel struct {
	Identity  string    `db:"identity"`
	FixtureID int64     `db:"fixture_id"`
	Scope     string    `db:"scope"`
	Day       time.Time `db:"day"`
	GrantedAt time.Time `db:"granted_at"`
}
