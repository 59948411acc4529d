// Package timezone provides timezone utilities for the scheduler.
//
// Commands are interpreted relative to the caller's calendar, so every
// day-granularity computation must happen in the caller's IANA zone
// rather than server local time.
package timezone

import (
	"fmt"
	"time"
)

// UTC is the coordinated universal time timezone.
var UTC = time.UTC

// ParseTimezone parses an IANA timezone identifier (e.g., "America/New_York").
// If the timezone is invalid, returns UTC and an error.
func ParseTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return UTC, nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return UTC, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}

	return loc, nil
}

// MustParseTimezone parses a timezone or panics if invalid.
// Use this for constants that are known to be valid at compile time.
func MustParseTimezone(tz string) *time.Location {
	loc, err := ParseTimezone(tz)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsValidTimezone checks if a timezone identifier is valid.
func IsValidTimezone(tz string) bool {
	if tz == "" || tz == "UTC" {
		return true
	}

	_, err := time.LoadLocation(tz)
	return err == nil
}

// StartOfDay returns the start of the day (00:00:00) in the given timezone.
func StartOfDay(t time.Time, tz *time.Location) time.Time {
	if tz == nil {
		tz = UTC
	}
	return time.Date(t.In(tz).Year(), t.In(tz).Month(), t.In(tz).Day(), 0, 0, 0, 0, tz)
}

// DateString formats a time as a YYYY-MM-DD calendar date in the given
// timezone.
func DateString(t time.Time, tz *time.Location) string {
	if tz == nil {
		tz = UTC
	}
	return t.In(tz).Format(time.DateOnly)
}

// ParseDate parses a YYYY-MM-DD calendar date in the given timezone,
// anchored at midnight.
func ParseDate(date string, tz *time.Location) (time.Time, error) {
	if tz == nil {
		tz = UTC
	}
	t, err := time.ParseInLocation(time.DateOnly, date, tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// AddDays returns the calendar date n days after t in the given
// timezone, anchored at midnight. Using AddDate keeps day arithmetic
// correct across DST transitions.
func AddDays(t time.Time, n int, tz *time.Location) time.Time {
	return StartOfDay(t, tz).AddDate(0, 0, n)
}

// Common timezone constants.
const (
	// TimezoneUTC is the UTC timezone identifier.
	TimezoneUTC = "UTC"

	// TimezoneAmericaNewYork is the Eastern Time timezone.
	TimezoneAmericaNewYork = "America/New_York"

	// TimezoneEuropeLondon is the GMT/BST timezone.
	TimezoneEuropeLondon = "Europe/London"
)
