// Package businessday computes default "as-of" dates for reporting views.
package businessday

import (
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// maxHolidaySpan bounds PreviousBusinessDayExcluding so a holiday set that
// covers every weekday cannot loop forever.
const maxHolidaySpan = 366

// IsWeekend reports whether d falls on Saturday or Sunday.
func IsWeekend(d schedule.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// PreviousBusinessDay returns the nearest weekday strictly before reference.
// Public holidays are not modelled.
func PreviousBusinessDay(reference schedule.Date) schedule.Date {
	d := reference.AddDays(-1)
	for IsWeekend(d) {
		d = d.AddDays(-1)
	}
	return d
}

// PreviousBusinessDayExcluding is PreviousBusinessDay that also skips an
// explicit holiday set. The second return value is false when no business
// day exists within a year before reference.
func PreviousBusinessDayExcluding(reference schedule.Date, holidays schedule.ExclusionSet) (schedule.Date, bool) {
	d := reference
	for i := 0; i < maxHolidaySpan; i++ {
		d = PreviousBusinessDay(d)
		if !holidays.Contains(d) {
			return d, true
		}
	}
	return schedule.Date{}, false
}

// AsOf returns the previous business day relative to now's calendar date in loc.
func AsOf(now time.Time, loc *time.Location) schedule.Date {
	if loc == nil {
		loc = time.UTC
	}
	return PreviousBusinessDay(schedule.DateOf(now.In(loc)))
}

// AsOfExcluding is AsOf that also skips holidays. When the holiday set
// leaves no business day within a year, holidays are ignored and the
// second return value is false.
func AsOfExcluding(now time.Time, loc *time.Location, holidays schedule.ExclusionSet) (schedule.Date, bool) {
	if loc == nil {
		loc = time.UTC
	}
	today := schedule.DateOf(now.In(loc))
	if d, ok := PreviousBusinessDayExcluding(today, holidays); ok {
		return d, true
	}
	return PreviousBusinessDay(today), false
}
