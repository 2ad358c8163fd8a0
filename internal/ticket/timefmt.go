package ticket

import (
	"fmt"
	"time"
)

// FormatTime renders an entry time the way it is persisted: ISO-8601 in UTC,
// keeping whatever sub-second precision the instant carries.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// NOTE: RFC3339 is a stricter version of ISO8601. Tickets written by the older
// python handlers use isoformat(), which is "+00:00" with microseconds, and
// RFC3339Nano covers that. The naive layouts are read as UTC.
func ParseTime(s string) (time.Time, error) {
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"}
	var t time.Time
	var err error
	for _, layout := range layouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid entry time '%s': %w", s, err)
}
