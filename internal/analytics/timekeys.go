package analytics

import (
	"fmt"
	"time"
)

// BucketSpan expands a time bucket key into its inclusive [start, end] date
// span. Accepted shapes are the ones timeBucket emits: "2024-01-07" (day),
// "2024-W05" (ISO week), "2024-01" (month). Brush gestures report bucket
// keys off the ordinal axis, and the filter state wants dates.
func BucketSpan(key string) (time.Time, time.Time, error) {
	if t, err := time.Parse(time.DateOnly, key); err == nil {
		return t, t, nil
	}

	var year, week int
	if n, err := fmt.Sscanf(key, "%d-W%d", &year, &week); err == nil && n == 2 {
		if week < 1 || week > 53 {
			return time.Time{}, time.Time{}, fmt.Errorf("iso week out of range in %q", key)
		}
		start := isoWeekStart(year, week)
		return start, start.AddDate(0, 0, 6), nil
	}

	if t, err := time.Parse("2006-01", key); err == nil {
		return t, t.AddDate(0, 1, -1), nil
	}

	return time.Time{}, time.Time{}, fmt.Errorf("unrecognized time bucket key %q", key)
}

// isoWeekStart returns the Monday opening the given ISO week. January 4 is
// always inside ISO week 1.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, 1, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
