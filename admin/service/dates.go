package service

import (
	"fmt"
	"time"
)

// isoDate is the calendar-date layout the forms submit.
const isoDate = "2006-01-02"

// normalizeDOB parses a date of birth given as an ISO calendar date or a full
// RFC 3339 timestamp and normalizes it to midnight UTC. Time of day is
// discarded so the stored value round-trips to the same calendar date.
func normalizeDOB(value string) (time.Time, error) {
	for _, layout := range []string{isoDate, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}
