package dates

import (
	"fmt"
	"time"
)

// LastDayOfMonth returns midnight UTC on the last calendar day of the given month.
// Computed as the first day of the following month minus one day, so leap years
// fall out of the calendar arithmetic instead of a lookup table.
func LastDayOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.AddDate(0, 0, -1)
}

// FirstDayOfMonth returns midnight UTC on the first calendar day of the given month.
func FirstDayOfMonth(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// PeriodBounds returns the inclusive first and last instants of a billing period.
// The end bound is the last nanosecond of the month's final day so that
// records dated anywhere on that day fall inside the period.
func PeriodBounds(year int, month time.Month) (start, end time.Time) {
	start = FirstDayOfMonth(year, month)
	end = LastDayOfMonth(year, month).Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// IsBeforeAdmission reports whether the billing period starts before the month
// the student was admitted in. Fee generation is suppressed for such periods.
// Comparison is month-granular: a student admitted mid-March still owes March.
func IsBeforeAdmission(year int, month time.Month, admission time.Time) bool {
	periodStart := FirstDayOfMonth(year, month)
	admissionMonthStart := FirstDayOfMonth(admission.Year(), admission.Month())
	return periodStart.Before(admissionMonthStart)
}

// MonthKey returns the canonical YYYY-MM key for a billing period, used for
// idempotency comparisons and cache keys.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}
