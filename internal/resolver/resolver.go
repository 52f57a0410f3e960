// Package resolver is the single entry point for turning a schedule
// definition into its next run. It validates the definition, dispatches on
// its kind to the cron or calendar resolver and reports the outcome.
//
// The package-level functions use a silent Engine. Callers that want
// exhausted searches logged or outcomes counted build their own with New.
package resolver

import (
	"fmt"
	"time"

	"github.com/aatumaykin/nextrun/internal/calendar"
	"github.com/aatumaykin/nextrun/internal/cron"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/metrics"
	"github.com/aatumaykin/nextrun/internal/schedule"
)

// Engine resolves definitions. The zero value is not usable; use New.
type Engine struct {
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an Engine. Without options it logs nothing and records no
// metrics.
func New(opts ...Option) *Engine {
	e := &Engine{logger: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("resolver")
	return e
}

var silent = New()

// ResolveNextRun resolves def with a silent engine.
func ResolveNextRun(def schedule.Definition, now time.Time) (schedule.Result, error) {
	return silent.ResolveNextRun(def, now)
}

// Upcoming lists occurrences with a silent engine.
func Upcoming(def schedule.Definition, now time.Time, n int) ([]time.Time, bool, error) {
	return silent.Upcoming(def, now, n)
}

// ResolveNextRun returns the first run of def strictly after now.
//
// An inactive definition yields an empty, non-exhausted result without
// being validated. An invalid definition yields an error and no result.
func (e *Engine) ResolveNextRun(def schedule.Definition, now time.Time) (schedule.Result, error) {
	start := time.Now()
	kind := string(def.Kind)

	if !def.IsActive {
		e.metrics.RecordResolution(kind, metrics.OutcomeInactive, time.Since(start))
		return schedule.Result{}, nil
	}

	result, err := e.resolve(def, now)
	if err != nil {
		e.metrics.RecordResolution(kind, metrics.OutcomeInvalid, time.Since(start))
		e.logger.Debug("definition rejected",
			logger.Field{Key: "id", Value: def.ID},
			logger.Field{Key: "reason", Value: err.Error()})
		return schedule.Result{}, err
	}

	outcome := metrics.OutcomeFound
	if result.SearchExhausted {
		outcome = metrics.OutcomeExhausted
		e.logger.Warn("no run within the search horizon, definition may be overly restrictive",
			logger.Field{Key: "id", Value: def.ID},
			logger.Field{Key: "kind", Value: kind})
	}
	e.metrics.RecordResolution(kind, outcome, time.Since(start))
	return result, nil
}

func (e *Engine) resolve(def schedule.Definition, now time.Time) (schedule.Result, error) {
	switch def.Kind {
	case schedule.KindCron:
		expr, err := validateCron(def)
		if err != nil {
			return schedule.Result{}, err
		}
		loc, err := def.Location()
		if err != nil {
			return schedule.Result{}, err
		}
		return expr.Resolve(now, loc, def.Exclusions()), nil
	default:
		if err := def.Validate(); err != nil {
			return schedule.Result{}, err
		}
		return calendar.Resolve(*def.Calendar, now)
	}
}

// Upcoming returns up to n successive runs of def after now. The boolean is
// true when the search horizon ran out before n runs were found. Inactive
// definitions yield no runs and no error.
func (e *Engine) Upcoming(def schedule.Definition, now time.Time, n int) ([]time.Time, bool, error) {
	if n <= 0 || !def.IsActive {
		return nil, false, nil
	}

	runs := make([]time.Time, 0, n)
	reference := now
	for len(runs) < n {
		result, err := e.ResolveNextRun(def, reference)
		if err != nil {
			return nil, false, err
		}
		if !result.HasNext() {
			return runs, result.SearchExhausted, nil
		}
		runs = append(runs, *result.NextRunAt)
		reference = *result.NextRunAt
	}
	return runs, false, nil
}

// Validate checks every invariant of def, including cron syntax.
func Validate(def schedule.Definition) error {
	if def.Kind == schedule.KindCron {
		_, err := validateCron(def)
		return err
	}
	return def.Validate()
}

func validateCron(def schedule.Definition) (*cron.Expression, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	expr, err := cron.Parse(def.CronExpression)
	if err != nil {
		return nil, fmt.Errorf("definition %q: %w", def.ID, err)
	}
	return expr, nil
}

// NewCronDefinition builds and validates a cron definition. An empty
// timezone means UTC.
func NewCronDefinition(id, expression, timezone string, active bool, exclusions ...schedule.Date) (schedule.Definition, error) {
	def := schedule.Definition{
		ID:             id,
		Kind:           schedule.KindCron,
		CronExpression: expression,
		Timezone:       timezone,
		ExclusionDates: exclusions,
		IsActive:       active,
	}
	if err := Validate(def); err != nil {
		return schedule.Definition{}, err
	}
	return def, nil
}

// NewCalendarDefinition builds and validates a calendar definition.
func NewCalendarDefinition(id string, config schedule.CalendarConfig, active bool) (schedule.Definition, error) {
	def := schedule.Definition{
		ID:       id,
		Kind:     schedule.KindCalendar,
		Calendar: &config,
		IsActive: active,
	}
	if err := Validate(def); err != nil {
		return schedule.Definition{}, err
	}
	return def, nil
}
