package stats

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Period bucket keys. All are derived from the event timestamp in the
// process-local timezone.

// DayKey returns the daily bucket key in sortable YYYY-MM-DD form.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekKey returns the weekly bucket key as "<year>-W<week>".
//
// The week number is a ceiling division of the day-of-year offset plus
// the weekday of January 1st, not strict ISO-8601 numbering. Historical
// weekly buckets are keyed by this formula, so it must not change even
// though it disagrees with ISO weeks around year boundaries.
func WeekKey(t time.Time) string {
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	pastDays := t.Sub(jan1).Hours() / 24
	week := int(math.Ceil((pastDays + float64(jan1.Weekday()) + 1) / 7))
	return fmt.Sprintf("%d-W%d", t.Year(), week)
}

// MonthKey returns the monthly bucket key in YYYY-MM form.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// YearKey returns the yearly bucket key.
func YearKey(t time.Time) string {
	return strconv.Itoa(t.Year())
}

// HourOfDay returns the local hour 0-23 used to index HourlyActivity.
func HourOfDay(t time.Time) int {
	return t.Hour()
}

// Millis converts a time to the millisecond epoch representation used in
// all persisted tables.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis is the inverse of Millis.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
