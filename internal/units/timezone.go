package units

import (
	"fmt"
	"time"
)

// LogTimeLayout is the layout used when printing sample and leg times.
const LogTimeLayout = "2006-01-02 15:04:05"

// LoadTimezone resolves a tz database name. An empty name means UTC.
func LoadTimezone(tz string) (*time.Location, error) {
	if tz == "" || tz == "UTC" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tz, err)
	}
	return loc, nil
}

// MillisToTime converts a sample timestamp (milliseconds since the Unix
// epoch) to a time in the given location.
func MillisToTime(ms int64, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc)
}

// FormatMillis formats a sample timestamp for display.
func FormatMillis(ms int64, loc *time.Location) string {
	return MillisToTime(ms, loc).Format(LogTimeLayout)
}
