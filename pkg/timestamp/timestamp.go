// Package timestamp provides standardized Unix timestamp handling for the
// queue core.
//
// This package uses int64 milliseconds as the canonical timestamp format.
// Every timestamp that crosses a package boundary — file names, queue status,
// retry schedules — is milliseconds since Unix epoch (UTC). Differences
// between two timestamps are spans in milliseconds of the same width.
//
// Zero Value Semantics:
//   - A timestamp value of 0 means "not set" or "no file open"
//   - Functions handle zero values gracefully, returning appropriate defaults
package timestamp

import "time"

// Now returns the current time as Unix milliseconds.
func Now() int64 {
	return time.Now().UnixMilli()
}

// ToUnixMs converts a time.Time to Unix milliseconds.
func ToUnixMs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromUnixMs converts Unix milliseconds to time.Time.
// Returns zero time if timestamp is 0.
func FromUnixMs(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Format converts Unix milliseconds to RFC3339 string for display.
// Returns empty string if timestamp is 0.
func Format(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

// IsZero checks if a timestamp is unset (zero).
func IsZero(ms int64) bool {
	return ms == 0
}

// Span returns end-start in milliseconds, clamped to zero when the clock ran
// backwards between the two samples.
func Span(start, end int64) int64 {
	if end < start {
		return 0
	}
	return end - start
}

// Between returns the duration between two timestamps.
// Returns 0 if either timestamp is zero.
func Between(start, end int64) time.Duration {
	if start == 0 || end == 0 {
		return 0
	}
	return time.UnixMilli(end).Sub(time.UnixMilli(start))
}

// Max returns the later of two timestamps.
// Zero values are treated as "earlier than any other time".
func Max(a, b int64) int64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a > b {
		return a
	}
	return b
}
