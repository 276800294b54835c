// Package civil provides calendar-date helpers pinned to the UTC+7 zone.
// All business dates in the system (transaction windows, reports, sync
// filtering) are civil dates as they read on a wall clock in UTC+7,
// independent of the host's local zone.
package civil

import "time"

// Layout is the wire format for civil dates.
const Layout = "2006-01-02"

// Zone is the fixed business timezone (UTC+7, no DST).
var Zone = time.FixedZone("UTC+7", 7*60*60)

// DateOf returns the civil date string of t as read in UTC+7.
func DateOf(t time.Time) string {
	return t.In(Zone).Format(Layout)
}

// Today returns the current civil date string.
func Today(now time.Time) string {
	return DateOf(now)
}

// Yesterday returns the civil date string of the day before now.
func Yesterday(now time.Time) string {
	return DateOf(now.In(Zone).AddDate(0, 0, -1))
}

// Parse parses a YYYY-MM-DD string into midnight UTC+7 of that date.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, Zone)
}

// DayBounds returns the [start, end) instants covering the civil date of t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(Zone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Zone)
	return start, start.AddDate(0, 0, 1)
}
