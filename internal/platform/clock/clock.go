package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Today returns the calendar date of c in the local zone as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Local().Format(time.DateOnly)
}
