package usecase

import "time"

// NowFunc supplies the current time; services take it as a field so tests
// can pin the clock.
type NowFunc func() time.Time

func defaultNow() time.Time {
	return time.Now().UTC()
}
