package schedule

import "time"

// Result is the outcome of resolving a definition against a reference instant.
// NextRunAt is nil when there is no known next run; SearchExhausted tells a
// bounded-horizon miss apart from an inactive definition.
type Result struct {
	NextRunAt       *time.Time `json:"nextRunAt,omitempty"`
	SearchExhausted bool       `json:"searchExhausted"`
}

// Found returns a result for a matched instant.
func Found(t time.Time) Result {
	return Result{NextRunAt: &t}
}

// Exhausted returns a result for a search that ran out of horizon.
func Exhausted() Result {
	return Result{SearchExhausted: true}
}

// HasNext reports whether the result carries a next run.
func (r Result) HasNext() bool {
	return r.NextRunAt != nil
}
