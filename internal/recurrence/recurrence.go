// Package recurrence computes occurrence dates of recurring transactions.
package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidInterval = errors.New("the recurrence interval must be one of DAILY, WEEKLY, MONTHLY, YEARLY")

// Interval is the period between two occurrences.
type Interval string

const (
	Daily   Interval = "DAILY"
	Weekly  Interval = "WEEKLY"
	Monthly Interval = "MONTHLY"
	Yearly  Interval = "YEARLY"
)

// Valid reports whether i is one of the defined intervals.
func (i Interval) Valid() bool {
	switch i {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ParseInterval parses an interval name case-insensitively.
func ParseInterval(s string) (Interval, error) {
	i := Interval(strings.ToUpper(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("%w, got %q", ErrInvalidInterval, s)
	}

	return i, nil
}

// Normalize returns 00:00 UTC of the calendar date t has in its own location.
//
// Converting with t.UTC() instead would move dates entered east of UTC to the
// previous day.
func Normalize(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Next returns the occurrence following date.
//
// Month and year steps keep the day of month and clamp it to the last day of
// the target month, so Jan 31 is followed by Feb 28 (or 29), which is in turn
// followed by Mar 28. An undefined interval returns date unchanged.
func Next(date time.Time, interval Interval) time.Time {
	switch interval {
	case Daily:
		return date.AddDate(0, 0, 1)
	case Weekly:
		return date.AddDate(0, 0, 7)
	case Monthly:
		return addMonthsClamped(date, 1)
	case Yearly:
		return addMonthsClamped(date, 12)
	default:
		return date
	}
}

// addMonthsClamped is time.AddDate without the normalization that turns
// Jan 31 + 1 month into Mar 2 or 3.
func addMonthsClamped(date time.Time, months int) time.Time {
	year, month, day := date.Date()
	hour, min, sec := date.Clock()

	first := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := daysIn(first.Year(), first.Month(), date.Location()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, hour, min, sec, date.Nanosecond(), date.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
