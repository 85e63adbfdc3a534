package domain

import (
	"fmt"
	"strings"
	"time"
)

// legacyUTCLayout matches the trailing-" UTC" microsecond encoding the data
// source also emits: "2024-01-02 03:04:05.000000 UTC".
const legacyUTCLayout = "2006-01-02 15:04:05.999999 UTC"

// ParseTimestamp accepts both encodings named in the data access contract:
// ISO-8601 (optionally with Z/offset, defaulting to UTC when absent) and the
// legacy "... UTC" form. Any value it cannot parse yields a wrapped
// ErrParse.
func ParseTimestamp(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty timestamp", ErrParse)
	}

	if strings.HasSuffix(s, " UTC") {
		t, err := time.ParseInLocation(legacyUTCLayout, s, time.UTC)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrParse, raw, err)
		}
		return t.UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}

	// No explicit zone offset (e.g. "2024-01-02T03:04:05.000000"): treat as UTC.
	const isoNoZone = "2006-01-02T15:04:05.999999999"
	if t, err := time.ParseInLocation(isoNoZone, s, time.UTC); err == nil {
		return t, nil
	}
	const isoNoZoneSpace = "2006-01-02 15:04:05.999999999"
	if t, err := time.ParseInLocation(isoNoZoneSpace, s, time.UTC); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("%w: %q: unrecognized timestamp encoding", ErrParse, raw)
}

// FormatTimestamp renders a UTC instant in the ISO-8601 encoding storewatch
// writes back out (poll timestamps are stored this way). The fraction is
// always nine digits, so the text sorts in the same order as the instants.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
