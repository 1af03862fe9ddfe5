package aggregate

import (
	"fmt"
	"time"

	"github.com/yasmngoncalves/PolarisApp/internal"
)

// DayKey returns the calendar day of t in loc as yyyy-MM-dd.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(location(loc)).Format(internal.DayLayout)
}

// ParseDay parses a day-key as local midnight in loc.
func ParseDay(day string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(internal.DayLayout, day, location(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
	}
	return t, nil
}

// LastNDays returns the n day-keys ending with the day of now, oldest first.
func LastNDays(now time.Time, n int, loc *time.Location) []string {
	if n <= 0 {
		return []string{}
	}
	loc = location(loc)
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[n-1-i] = today.AddDate(0, 0, -i).Format(internal.DayLayout)
	}
	return days
}

// DayBounds returns [start of day, start of next day) in loc.
func DayBounds(day string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ParseDay(day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.AddDate(0, 0, 1), nil
}

// Bounds returns the half-open time interval covering every day in days.
func Bounds(days []string, loc *time.Location) (time.Time, time.Time, error) {
	if len(days) == 0 {
		return time.Time{}, time.Time{}, fmt.Errorf("empty day range")
	}
	start, err := ParseDay(days[0], loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	_, end, err := DayBounds(days[len(days)-1], loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
