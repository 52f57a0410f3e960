// Package schedule holds the value types shared by the schedule resolvers:
// definitions, calendar recurrence configs, dates, exclusion sets and
// resolution results.
//
// Definition.Validate checks field presence, selector and timezone
// invariants. Cron syntax is checked by the cron package; resolver.Validate
// runs both.
package schedule

import (
	"fmt"
	"slices"
	"time"
)

// Kind selects the resolver that applies to a definition.
type Kind string

const (
	// KindCron is a definition driven by a 5-field cron expression
	KindCron Kind = "cron"
	// KindCalendar is a definition driven by a CalendarConfig
	KindCalendar Kind = "calendar"
)

// Frequency is the recurrence unit of a calendar definition.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Definition identifies one recurring trigger.
//
// Timezone and ExclusionDates apply to cron definitions only; calendar
// definitions carry both inside CalendarConfig.
type Definition struct {
	ID             string          `json:"id" yaml:"id"`
	Kind           Kind            `json:"kind" yaml:"kind"`
	CronExpression string          `json:"cronExpression,omitempty" yaml:"cronExpression,omitempty"`
	Timezone       string          `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	ExclusionDates []Date          `json:"exclusionDates,omitempty" yaml:"exclusionDates,omitempty"`
	Calendar       *CalendarConfig `json:"calendarConfig,omitempty" yaml:"calendarConfig,omitempty"`
	IsActive       bool            `json:"isActive" yaml:"isActive"`
}

// CalendarConfig is a higher-level recurrence rule.
type CalendarConfig struct {
	Frequency      Frequency   `json:"frequency" yaml:"frequency"`
	TimeSlots      []TimeOfDay `json:"timeSlots" yaml:"timeSlots"`
	WeeklyDays     []Weekday   `json:"weeklyDays,omitempty" yaml:"weeklyDays,omitempty"`
	MonthlyDays    []int       `json:"monthlyDays,omitempty" yaml:"monthlyDays,omitempty"`
	YearlyDates    []MonthDay  `json:"yearlyDates,omitempty" yaml:"yearlyDates,omitempty"`
	ExclusionDates []Date      `json:"exclusionDates,omitempty" yaml:"exclusionDates,omitempty"`
	Timezone       string      `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Validate checks the structural invariants of a definition. It does not
// parse the cron expression.
func (d Definition) Validate() error {
	if err := d.validate(); err != nil {
		err.ID = d.ID
		return err
	}
	return nil
}

func (d Definition) validate() *InvalidDefinitionError {
	if d.ID == "" {
		return invalid("id", "must not be empty")
	}

	switch d.Kind {
	case KindCron:
		if d.CronExpression == "" {
			return invalid("cronExpression", "required when kind is %q", KindCron)
		}
		if d.Calendar != nil {
			return invalid("calendarConfig", "must be absent when kind is %q", KindCron)
		}
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			return invalid("timezone", "unknown timezone %q", d.Timezone)
		}
	case KindCalendar:
		if d.Calendar == nil {
			return invalid("calendarConfig", "required when kind is %q", KindCalendar)
		}
		if d.CronExpression != "" {
			return invalid("cronExpression", "must be absent when kind is %q", KindCalendar)
		}
		if d.Timezone != "" {
			return invalid("timezone", "calendar definitions set the timezone inside calendarConfig")
		}
		if len(d.ExclusionDates) > 0 {
			return invalid("exclusionDates", "calendar definitions set exclusion dates inside calendarConfig")
		}
		return d.Calendar.validate()
	default:
		return invalid("kind", "unknown kind %q (expected: %s, %s)", d.Kind, KindCron, KindCalendar)
	}
	return nil
}

// Location loads the timezone a definition is evaluated in.
func (d Definition) Location() (*time.Location, error) {
	name := d.Timezone
	if d.Kind == KindCalendar && d.Calendar != nil {
		name = d.Calendar.Timezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &InvalidDefinitionError{ID: d.ID, Field: "timezone", Reason: fmt.Sprintf("unknown timezone %q", name)}
	}
	return loc, nil
}

// Exclusions returns the blackout dates that apply to the definition.
func (d Definition) Exclusions() ExclusionSet {
	if d.Kind == KindCalendar && d.Calendar != nil {
		return NewExclusionSet(d.Calendar.ExclusionDates)
	}
	return NewExclusionSet(d.ExclusionDates)
}

// Validate checks the calendar config on its own.
func (c CalendarConfig) Validate() error {
	if err := c.validate(); err != nil {
		return err
	}
	return nil
}

func (c CalendarConfig) validate() *InvalidDefinitionError {
	if len(c.TimeSlots) == 0 {
		return invalid("calendarConfig.timeSlots", "at least one time slot is required")
	}
	seen := make(map[TimeOfDay]bool, len(c.TimeSlots))
	for _, slot := range c.TimeSlots {
		if slot.Hour < 0 || slot.Hour > 23 || slot.Minute < 0 || slot.Minute > 59 {
			return invalid("calendarConfig.timeSlots", "time slot %s out of range", slot)
		}
		if seen[slot] {
			return invalid("calendarConfig.timeSlots", "duplicate time slot %s", slot)
		}
		seen[slot] = true
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return invalid("calendarConfig.timezone", "unknown timezone %q", c.Timezone)
	}

	weekly := c.Frequency == FrequencyWeekly
	monthly := c.Frequency == FrequencyMonthly
	yearly := c.Frequency == FrequencyYearly
	if !weekly && !monthly && !yearly {
		return invalid("calendarConfig.frequency", "unknown frequency %q (expected: %s, %s, %s)",
			c.Frequency, FrequencyWeekly, FrequencyMonthly, FrequencyYearly)
	}

	if err := selectorPresence("calendarConfig.weeklyDays", len(c.WeeklyDays), weekly, c.Frequency); err != nil {
		return err
	}
	if err := selectorPresence("calendarConfig.monthlyDays", len(c.MonthlyDays), monthly, c.Frequency); err != nil {
		return err
	}
	if err := selectorPresence("calendarConfig.yearlyDates", len(c.YearlyDates), yearly, c.Frequency); err != nil {
		return err
	}

	for _, day := range c.WeeklyDays {
		if !day.Valid() {
			return invalid("calendarConfig.weeklyDays", "weekday %d out of range [0-6]", int(day))
		}
	}
	for _, day := range c.MonthlyDays {
		if day < 1 || day > 31 {
			return invalid("calendarConfig.monthlyDays", "day %d out of range [1-31]", day)
		}
	}
	for _, md := range c.YearlyDates {
		if !md.valid() {
			return invalid("calendarConfig.yearlyDates", "no such calendar day %s", md)
		}
	}
	return nil
}

func selectorPresence(field string, n int, required bool, freq Frequency) *InvalidDefinitionError {
	switch {
	case required && n == 0:
		return invalid(field, "must not be empty for %s frequency", freq)
	case !required && n > 0:
		return invalid(field, "must be empty for %s frequency", freq)
	}
	return nil
}

// SortedTimeSlots returns the time slots in ascending order.
func (c CalendarConfig) SortedTimeSlots() []TimeOfDay {
	slots := slices.Clone(c.TimeSlots)
	slices.SortFunc(slots, func(a, b TimeOfDay) int { return a.Minutes() - b.Minutes() })
	return slots
}
