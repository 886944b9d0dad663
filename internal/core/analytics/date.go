package analytics

import "time"

// MonthKey formats a time as its calendar-month bucket key (YYYY-MM).
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthStart returns midnight on the first day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// YearStart returns midnight on January 1st of t's year.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

// LastMonths returns the trailing n month keys anchored at now's month,
// oldest first. Anchoring at the month start avoids end-of-month
// normalization skew in AddDate.
func LastMonths(now time.Time, n int) []string {
	anchor := MonthStart(now)
	keys := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		keys = append(keys, MonthKey(anchor.AddDate(0, -i, 0)))
	}
	return keys
}
