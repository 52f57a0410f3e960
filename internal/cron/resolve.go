package cron

import (
	"fmt"
	"time"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

// HorizonYears bounds how far ahead a cron search looks before giving up.
const HorizonYears = 8

// robfigYears is how far robfig's SpecSchedule.Next searches past its input
// year before returning the zero time.
const robfigYears = 5

// Next returns the earliest instant strictly after `after` that matches the
// expression in loc and for which skip returns false. Skipped candidates
// advance the search to the start of the following day. The second return
// value is false when nothing matched within HorizonYears.
func (e *Expression) Next(after time.Time, loc *time.Location, skip func(time.Time) bool) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	cursor := after.In(loc)
	limit := cursor.AddDate(HorizonYears, 0, 0)

	for {
		next := e.schedule.Next(cursor)
		if next.IsZero() {
			// robfig covered [cursor, end of cursor.Year()+5] without a match
			if !cursor.Before(limit) {
				return time.Time{}, false
			}
			cursor = cursor.AddDate(robfigYears, 0, 0).Truncate(time.Minute)
			continue
		}
		if next.After(limit) {
			return time.Time{}, false
		}
		if skip == nil || !skip(next) {
			return next, true
		}
		y, m, d := next.Date()
		cursor = time.Date(y, m, d+1, 0, 0, 0, 0, loc).Add(-time.Second)
	}
}

// Resolve parses expression and returns the next run after reference in
// the named IANA timezone (empty means UTC), skipping exclusion dates.
func Resolve(expression string, reference time.Time, timezone string, exclusions ...schedule.Date) (schedule.Result, error) {
	expr, err := Parse(expression)
	if err != nil {
		return schedule.Result{}, err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return schedule.Result{}, &schedule.InvalidDefinitionError{
			Field:  "timezone",
			Reason: fmt.Sprintf("unknown timezone %q", timezone),
		}
	}
	return expr.Resolve(reference, loc, schedule.NewExclusionSet(exclusions)), nil
}

// Resolve is the parsed-expression form of the package-level Resolve.
func (e *Expression) Resolve(reference time.Time, loc *time.Location, exclusions schedule.ExclusionSet) schedule.Result {
	next, ok := e.Next(reference, loc, func(t time.Time) bool {
		return schedule.IsExcluded(t, exclusions)
	})
	if !ok {
		return schedule.Exhausted()
	}
	return schedule.Found(next)
}
