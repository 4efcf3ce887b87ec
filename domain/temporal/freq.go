package temporal

import (
	"fmt"
	"strings"
	"time"

	"tabular/domain/core"
	"tabular/domain/series"
)

// Freq is the resolution of a time grid
type Freq string

const (
	FreqHour  Freq = "hour"
	FreqDay   Freq = "day"
	FreqWeek  Freq = "week"
	FreqMonth Freq = "month"
)

// ParseFreq accepts the short aliases used on the CLI (H, D, W, M) as well as
// the full names.
func ParseFreq(s string) (Freq, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "h", "hour", "hourly":
		return FreqHour, nil
	case "d", "day", "daily":
		return FreqDay, nil
	case "w", "week", "weekly":
		return FreqWeek, nil
	case "m", "month", "monthly":
		return FreqMonth, nil
	default:
		return "", fmt.Errorf("%w: unknown frequency %q", core.ErrBadFrequency, s)
	}
}

// Floor rounds t down to the start of its bucket. Weeks start on Monday,
// months on the first.
func (f Freq) Floor(t time.Time) time.Time {
	switch f {
	case FreqHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	case FreqDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	case FreqWeek:
		weekday := int(t.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := t.AddDate(0, 0, -(weekday - 1))
		return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	case FreqMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return t
	}
}

// Next advances a bucket start to the start of the following bucket. Months
// advance by calendar month, not by a fixed duration.
func (f Freq) Next(t time.Time) time.Time {
	switch f {
	case FreqHour:
		return t.Add(time.Hour)
	case FreqDay:
		return t.AddDate(0, 0, 1)
	case FreqWeek:
		return t.AddDate(0, 0, 7)
	case FreqMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// DateRange generates bucket starts from start up to and including end.
func DateRange(name string, start, end time.Time, freq Freq) (*series.Series, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s before start %s", core.ErrBadFrequency, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	var grid []time.Time
	for cur := freq.Floor(start); !cur.After(end); cur = freq.Next(cur) {
		grid = append(grid, cur)
	}
	return series.Times(name, grid...), nil
}

// DateRangePeriods generates exactly periods bucket starts from start.
func DateRangePeriods(name string, start time.Time, periods int, freq Freq) (*series.Series, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("%w: periods must be positive, got %d", core.ErrBadFrequency, periods)
	}
	grid := make([]time.Time, periods)
	cur := freq.Floor(start)
	for i := 0; i < periods; i++ {
		grid[i] = cur
		cur = freq.Next(cur)
	}
	return series.Times(name, grid...), nil
}
