// Package timeparse normalizes timestamp strings of several historical
// formats into instants in the reference zone.
//
// Three formats exist in the wild: UTC with a trailing 'Z' (the oldest
// rows), ISO-8601 with an explicit numeric offset, and naive local time
// already expressed in the reference zone. Strategies are tried in that
// order; the first whose marker matches owns the string.
package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedTimestamp is returned when a timestamp string matches none of
// the accepted formats.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

const (
	// StorageLayout is how instants are rendered into the Timestamp column:
	// reference-zone local time, no offset suffix, exactly 3 fractional digits.
	StorageLayout = "2006-01-02T15:04:05.000"
	// DateLayout is the derived Date column format.
	DateLayout = "2006-01-02"
	// ClockLayout is the derived Time column format.
	ClockLayout = "15:04:05"
)

// strategy is one try-parse rule. matches decides whether the strategy owns
// the string; parse attempts the fractional and non-fractional layouts in turn.
type strategy struct {
	name    string
	matches func(s string) bool
	parse   func(s string, loc *time.Location) (time.Time, error)
}

var strategies = []strategy{
	{
		name:    "utc-z-suffix",
		matches: hasZSuffix,
		parse: func(s string, loc *time.Location) (time.Time, error) {
			t, err := parseNaive(strings.TrimSuffix(s, "Z"), time.UTC)
			if err != nil {
				return time.Time{}, err
			}
			return t.In(loc), nil
		},
	},
	{
		name:    "explicit-offset",
		matches: hasTrailingOffset,
		parse: func(s string, loc *time.Location) (time.Time, error) {
			for _, layout := range []string{"2006-01-02T15:04:05.999999999Z07:00", "2006-01-02T15:04:05Z07:00"} {
				if t, err := time.Parse(layout, s); err == nil {
					return t.In(loc), nil
				}
			}
			return time.Time{}, fmt.Errorf("no offset layout matched %q", s)
		},
	},
	{
		name:    "naive-local",
		matches: func(string) bool { return true },
		parse:   parseNaive,
	},
}

func hasZSuffix(s string) bool {
	return strings.HasSuffix(s, "Z")
}

// hasTrailingOffset reports whether the last 6 characters form a numeric
// ±HH:MM offset.
func hasTrailingOffset(s string) bool {
	if len(s) < 6 {
		return false
	}
	tail := s[len(s)-6:]
	return (tail[0] == '+' || tail[0] == '-') && tail[3] == ':'
}

// parseNaive interprets s as a zoneless timestamp in loc, trying the
// fractional-seconds layout first, then the whole-seconds one.
func parseNaive(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("no naive layout matched %q", s)
}

// Normalize parses a timestamp string of unknown format and returns the
// instant in loc, truncated to millisecond precision.
//
// A string carrying both a 'Z' suffix and a numeric offset has no defined
// precedence in any of the observed formats, so it is rejected outright
// rather than guessed at.
func Normalize(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty string", ErrMalformedTimestamp)
	}
	if hasZSuffix(s) && hasTrailingOffset(strings.TrimSuffix(s, "Z")) {
		return time.Time{}, fmt.Errorf("%w: %q carries both a Z suffix and a numeric offset", ErrMalformedTimestamp, s)
	}

	for _, strat := range strategies {
		if !strat.matches(s) {
			continue
		}
		t, err := strat.parse(s, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q (%s): %v", ErrMalformedTimestamp, s, strat.name, err)
		}
		return t.Truncate(time.Millisecond), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
}

// Format renders an instant into the storage Timestamp format in loc.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(StorageLayout)
}

// DateOf renders the derived Date projection of an instant.
func DateOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ClockOf renders the derived Time projection of an instant.
func ClockOf(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}
