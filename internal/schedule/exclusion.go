package schedule

import "time"

// ExclusionSet is a set of blackout calendar dates.
type ExclusionSet map[Date]struct{}

// NewExclusionSet builds a set from a list of dates. Duplicates collapse.
func NewExclusionSet(dates []Date) ExclusionSet {
	set := make(ExclusionSet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Contains reports whether d is a blackout date. A nil set contains nothing.
func (s ExclusionSet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// IsExcluded reports whether the calendar date of candidate, taken in the
// candidate's own location, is a blackout date. Callers convert the candidate
// into the definition's timezone first.
func IsExcluded(candidate time.Time, exclusions ExclusionSet) bool {
	if len(exclusions) == 0 {
		return false
	}
	return exclusions.Contains(DateOf(candidate))
}
