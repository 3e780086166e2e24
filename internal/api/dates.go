package api

import (
	"strconv"
	"time"
)

// The server's date fields are not uniform: some endpoints send
// ISO-8601 with fractional seconds, some without, some a bare day, and
// a few legacy rows surface as unix epoch seconds.
var dateLayouts = []string{
	time.RFC3339,     // 2024-12-25T10:00:00Z
	time.RFC3339Nano, // 2024-12-25T10:00:00.123Z
	"2006-01-02",
}

// ParseDate parses a wire date tolerantly: first matching format wins,
// and empty or unparseable input yields the zero time rather than an
// error.
func ParseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	return time.Time{}
}

// FormatDate renders t in the wire format (ISO-8601, UTC).
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
