// Package timeutil normalizes the heterogeneous timestamp
// representations found in the cache (ISO-8601 strings with or without
// zone suffix, epoch seconds, epoch milliseconds) into one canonical
// ISO-8601 form with an explicit offset, and derives day/week
// aggregation keys from it.
package timeutil

import (
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/untyped"
)

// msThreshold separates epoch seconds from epoch milliseconds: any
// magnitude above it is treated as milliseconds.
const msThreshold = 1e10

// Layouts accepted when parsing timestamp strings. RFC3339 covers both
// the 'Z' suffix and explicit offsets; the remaining layouts cover
// zone-less values, which are interpreted as UTC.
var parseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Parse parses a timestamp string. An explicit offset is preserved;
// zone-less input is interpreted as UTC (the zone-less layouts parse
// into UTC by construction).
func Parse(value string) (time.Time, bool) {
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Canonical formats t as an ISO-8601 string with an explicit offset.
// A 'Z' suffix is never emitted; UTC renders as "+00:00". Sub-second
// precision is included only when present, microsecond granularity.
func Canonical(t time.Time) string {
	if t.Nanosecond() != 0 {
		return t.Format("2006-01-02T15:04:05.000000-07:00")
	}
	return t.Format("2006-01-02T15:04:05-07:00")
}

// NormalizeString normalizes a timestamp string to canonical form.
// Unparseable strings are returned unchanged: one bad field must not
// fail the whole record.
func NormalizeString(value string) string {
	t, ok := Parse(value)
	if !ok {
		return value
	}
	return Canonical(t)
}

// Normalize normalizes an untyped timestamp value. nil yields "".
// Numbers are treated as epoch seconds, or epoch milliseconds when the
// magnitude exceeds 1e10, and converted to UTC.
func Normalize(v any) string {
	if v == nil {
		return ""
	}
	if n, ok := untyped.AsNumber(v); ok {
		if n > msThreshold || n < -msThreshold {
			n /= 1000
		}
		sec := int64(n)
		nsec := int64((n - float64(sec)) * 1e9)
		return Canonical(time.Unix(sec, nsec).UTC())
	}
	if s, ok := untyped.AsString(v); ok {
		return NormalizeString(s)
	}
	return ""
}

// DayKey returns the UTC calendar date portion (YYYY-MM-DD) of a
// timestamp, or ok=false when the value cannot be parsed. Offset
// instants are converted to UTC first so the same instant always lands
// in the same bucket.
func DayKey(value string) (string, bool) {
	t, ok := Parse(value)
	if !ok {
		return "", false
	}
	return t.UTC().Format("2006-01-02"), true
}

// WeekKey returns the ISO calendar year and week (YYYY-Www, zero-padded)
// of a timestamp, or ok=false when the value cannot be parsed. Like
// DayKey, the instant is bucketed in UTC.
func WeekKey(value string) (string, bool) {
	t, ok := Parse(value)
	if !ok {
		return "", false
	}
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week), true
}
