// Package calendar resolves calendar recurrence rules (weekly, monthly and
// yearly day selectors combined with time-of-day slots) into the next
// matching instant.
//
// Candidates are generated in ascending order inside the config's timezone
// over a bounded horizon; the first one strictly after the reference that
// is not on an exclusion date wins.
package calendar

import (
	"slices"
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// Search horizons per frequency.
const (
	WeeklyHorizonWeeks   = 8
	MonthlyHorizonMonths = 14
	YearlyHorizonYears   = 6
)

// Resolve returns the next run of config strictly after reference.
// An invalid config is rejected before any candidate is generated.
func Resolve(config schedule.CalendarConfig, reference time.Time) (schedule.Result, error) {
	if err := config.Validate(); err != nil {
		return schedule.Result{}, err
	}
	loc, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return schedule.Result{}, err
	}

	r := resolver{
		reference:  reference,
		loc:        loc,
		slots:      config.SortedTimeSlots(),
		exclusions: schedule.NewExclusionSet(config.ExclusionDates),
	}
	start := schedule.DateOf(reference.In(loc))

	var next time.Time
	var ok bool
	switch config.Frequency {
	case schedule.FrequencyWeekly:
		next, ok = r.weekly(start, config.WeeklyDays)
	case schedule.FrequencyMonthly:
		next, ok = r.monthly(start, config.MonthlyDays)
	case schedule.FrequencyYearly:
		next, ok = r.yearly(start, config.YearlyDates)
	}
	if !ok {
		return schedule.Exhausted(), nil
	}
	return schedule.Found(next), nil
}

type resolver struct {
	reference  time.Time
	loc        *time.Location
	slots      []schedule.TimeOfDay
	exclusions schedule.ExclusionSet
}

// onDay returns the first slot on day that is strictly after the reference.
// Excluded days yield nothing.
func (r resolver) onDay(day schedule.Date) (time.Time, bool) {
	if r.exclusions.Contains(day) {
		return time.Time{}, false
	}
	for _, slot := range r.slots {
		candidate := slot.On(day, r.loc)
		if candidate.After(r.reference) && !schedule.IsExcluded(candidate, r.exclusions) {
			return candidate, true
		}
	}
	return time.Time{}, false
}

func (r resolver) weekly(start schedule.Date, days []schedule.Weekday) (time.Time, bool) {
	wanted := make(map[schedule.Weekday]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}
	for offset := 0; offset < WeeklyHorizonWeeks*7; offset++ {
		day := start.AddDays(offset)
		if !wanted[schedule.WeekdayOf(day.Weekday())] {
			continue
		}
		if t, ok := r.onDay(day); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r resolver) monthly(start schedule.Date, days []int) (time.Time, bool) {
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	for offset := 0; offset < MonthlyHorizonMonths; offset++ {
		first := schedule.NewDate(start.Year, start.Month+time.Month(offset), 1)
		limit := schedule.DaysIn(first.Year, first.Month)
		for _, dom := range sorted {
			// day 31 in a 30-day month is skipped, never rolled over
			if dom > limit {
				break
			}
			day := schedule.Date{Year: first.Year, Month: first.Month, Day: dom}
			if day.Before(start) {
				continue
			}
			if t, ok := r.onDay(day); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func (r resolver) yearly(start schedule.Date, dates []schedule.MonthDay) (time.Time, bool) {
	sorted := slices.Clone(dates)
	slices.SortFunc(sorted, func(a, b schedule.MonthDay) int {
		if a.Month != b.Month {
			return int(a.Month) - int(b.Month)
		}
		return a.Day - b.Day
	})
	sorted = slices.Compact(sorted)

	for year := start.Year; year < start.Year+YearlyHorizonYears; year++ {
		for _, md := range sorted {
			day, ok := md.In(year)
			if !ok || day.Before(start) {
				continue
			}
			if t, ok := r.onDay(day); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
