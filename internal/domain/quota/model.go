package quota

import (
	"errors"
	"fmt"
	"time"
)

// ErrDuplicateGrant is returned by Repository.CreateGrant when a grant for
// the same (identity, fixture, scope, day) key already exists.
var ErrDuplicateGrant = errors.New("quota grant already exists")

// Grant records that an identity spent one daily quota unit on a fixture.
// The first grant for a key is the only one that counts; repeats are free.
type Grant struct {
	Identity  string
	FixtureID int64
	Scope     string
	Day       time.Time
	GrantedAt time.Time
}

// Decision is the outcome of a quota check.
type Decision struct {
	Admitted  bool
	FirstSeen bool
	Remaining int
	ResetsAt  time.Time
}

// LimitExceededError carries the data a client needs to back off.
type LimitExceededError struct {
	Limit    int
	ResetsAt time.Time
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily quota of %d exhausted, resets at %s", e.Limit, e.ResetsAt.Format(time.RFC3339))
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NextReset is the next UTC midnight after t, when daily counters reset.
func NextReset(t time.Time) time.Time {
	return DayOf(t).Add(24 * time.Hour)
}
