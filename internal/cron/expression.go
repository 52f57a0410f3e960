// Package cron parses 5-field cron expressions and resolves their next
// occurrence. Field syntax is validated here so errors can name the
// offending field; next-match arithmetic is delegated to robfig/cron/v3.
//
//	┌───────────── minute (0-59)
//	│ ┌───────────── hour (0-23)
//	│ │ ┌───────────── day of month (1-31)
//	│ │ │ ┌───────────── month (1-12)
//	│ │ │ │ ┌───────────── day of week (0-7, 0 and 7 = Sunday)
//	│ │ │ │ │
//	* * * * *
//
// When both day-of-month and day-of-week are restricted a day matches if
// either one does.
package cron

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/wasilibs/go-re2"
)

const (
	minuteField = iota
	hourField
	domField
	monthField
	dowField
)

type fieldSpec struct {
	name     string
	min, max int
}

var fieldSpecs = [5]fieldSpec{
	minuteField: {name: "minute", min: 0, max: 59},
	hourField:   {name: "hour", min: 0, max: 23},
	domField:    {name: "day-of-month", min: 1, max: 31},
	monthField:  {name: "month", min: 1, max: 12},
	dowField:    {name: "day-of-week", min: 0, max: 7},
}

// term: *, N, N-M, optionally followed by /step
var termPattern = re2.MustCompile(`^(\*|\d+)(?:-(\d+))?(?:/(\d+))?$`)

// standardParser parses the canonical form produced by Expression.String.
var standardParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Expression is a parsed and normalised cron expression.
type Expression struct {
	raw      string
	sets     [5]uint64
	wildcard [5]bool
	schedule cron.Schedule
}

// Parse validates a 5-field cron expression.
func Parse(expression string) (*Expression, error) {
	parts := strings.Fields(expression)
	if len(parts) != 5 {
		return nil, &MalformedExpressionError{
			Field:  "expression",
			Value:  expression,
			Reason: fmt.Sprintf("expected 5 fields, got %d", len(parts)),
		}
	}

	e := &Expression{raw: expression}
	for i, spec := range fieldSpecs {
		set, wildcard, err := parseField(parts[i], spec)
		if err != nil {
			return nil, &MalformedExpressionError{Field: spec.name, Value: parts[i], Reason: err.Error()}
		}
		e.sets[i] = set
		e.wildcard[i] = wildcard
	}

	// 7 is an alias for Sunday
	if e.sets[dowField]&(1<<7) != 0 {
		e.sets[dowField] = e.sets[dowField]&^(1<<7) | 1
	}

	sched, err := standardParser.Parse(e.String())
	if err != nil {
		return nil, &MalformedExpressionError{Field: "expression", Value: expression, Reason: err.Error()}
	}
	e.schedule = sched
	return e, nil
}

// MustParse is Parse that panics on error.
func MustParse(expression string) *Expression {
	e, err := Parse(expression)
	if err != nil {
		panic(err)
	}
	return e
}

// Raw returns the expression as it was written.
func (e *Expression) Raw() string {
	return e.raw
}

// String renders the canonical form: "*" for wildcards, otherwise a sorted
// comma-separated list of values.
func (e *Expression) String() string {
	out := make([]string, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		if e.wildcard[i] {
			out[i] = "*"
			continue
		}
		maxValue := spec.max
		if i == dowField {
			maxValue = 6
		}
		var values []string
		for v := spec.min; v <= maxValue; v++ {
			if e.sets[i]&(1<<uint(v)) != 0 {
				values = append(values, strconv.Itoa(v))
			}
		}
		out[i] = strings.Join(values, ",")
	}
	return strings.Join(out, " ")
}

// parseField parses a comma-separated list of terms into a bitset.
func parseField(field string, spec fieldSpec) (uint64, bool, error) {
	var set uint64
	wildcard := false
	for _, term := range strings.Split(field, ",") {
		bits, star, err := parseTerm(term, spec)
		if err != nil {
			return 0, false, err
		}
		set |= bits
		wildcard = wildcard || star
	}
	if set == 0 {
		return 0, false, fmt.Errorf("field produces no values")
	}
	return set, wildcard, nil
}

// parseTerm parses one term: *, */N, V, V/N, V-V, V-V/N.
// Only a bare * (or */1) counts as a wildcard for day matching.
func parseTerm(term string, spec fieldSpec) (uint64, bool, error) {
	m := termPattern.FindStringSubmatch(term)
	if m == nil {
		return 0, false, fmt.Errorf("unrecognised term %q", term)
	}

	step := 1
	if m[3] != "" {
		parsed, err := strconv.Atoi(m[3])
		if err != nil || parsed <= 0 {
			return 0, false, fmt.Errorf("step must be a positive integer, got %q", m[3])
		}
		step = parsed
	}

	var start, end int
	star := m[1] == "*"
	switch {
	case star:
		if m[2] != "" {
			return 0, false, fmt.Errorf("wildcard cannot start a range")
		}
		start, end = spec.min, spec.max
	default:
		start, _ = strconv.Atoi(m[1])
		end = start
		if m[2] != "" {
			end, _ = strconv.Atoi(m[2])
		} else if m[3] != "" {
			end = spec.max
		}
	}

	if start < spec.min || end > spec.max {
		return 0, false, fmt.Errorf("value out of range [%d-%d]", spec.min, spec.max)
	}
	if start > end {
		return 0, false, fmt.Errorf("range start %d is greater than end %d", start, end)
	}

	var bits uint64
	for v := start; v <= end; v += step {
		bits |= 1 << uint(v)
	}
	return bits, star && step == 1, nil
}
