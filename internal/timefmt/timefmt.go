package timefmt

import (
	"fmt"
	"strings"
	"time"
)

// Upstream timestamps are airport-local wall clock times, usually without
// an offset. They are parsed as-is into UTC so the displayed clock time
// matches what the airline publishes.
var timestampFormats = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05-0700", // Without colon
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be in YYYY-MM-DD format: %w", err)
	}
	return t, nil
}

func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// Clock renders the time of day of a leg endpoint, e.g. "08:05".
func Clock(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("15:04")
}

// ShortDay is the chart axis label, e.g. "Jun 1".
func ShortDay(t time.Time) string {
	return t.Format("Jan 2")
}

// DayChip is the result header label, e.g. "Sat, Jun 1".
func DayChip(t time.Time) string {
	return t.Format("Mon, Jan 2")
}
