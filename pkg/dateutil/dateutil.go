// Package dateutil provides calendar-day helpers used for slot
// comparisons and derived patient fields.
package dateutil

import (
	"fmt"
	"time"
)

// DayFormat is the plain calendar-day input format accepted alongside
// RFC 3339 timestamps.
const DayFormat = "2006-01-02"

// Normalize collapses any instant to its UTC calendar day at midnight.
// The UTC fields of the input are used, not the local ones, so inputs
// on either side of a timezone boundary land on the same day.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an RFC 3339 timestamp or a plain YYYY-MM-DD day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// Age returns full years elapsed between dob and now, counting a year
// only once the birthday has passed.
func Age(dob, now time.Time) int {
	dob, now = dob.UTC(), now.UTC()
	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() ||
		(now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age
}
