package schedule

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weeklyConfig() *CalendarConfig {
	return &CalendarConfig{
		Frequency:  FrequencyWeekly,
		TimeSlots:  []TimeOfDay{{9, 0}},
		WeeklyDays: []Weekday{Friday},
		Timezone:   "UTC",
	}
}

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name  string
		def   Definition
		field string
	}{
		{
			name: "valid cron",
			def:  Definition{ID: "a", Kind: KindCron, CronExpression: "0 6 * * *", Timezone: "Europe/Berlin", IsActive: true},
		},
		{
			name: "valid calendar",
			def:  Definition{ID: "a", Kind: KindCalendar, Calendar: weeklyConfig()},
		},
		{
			name:  "missing id",
			def:   Definition{Kind: KindCron, CronExpression: "0 6 * * *"},
			field: "id",
		},
		{
			name:  "unknown kind",
			def:   Definition{ID: "a", Kind: "interval"},
			field: "kind",
		},
		{
			name:  "cron without expression",
			def:   Definition{ID: "a", Kind: KindCron},
			field: "cronExpression",
		},
		{
			name:  "cron with calendar config",
			def:   Definition{ID: "a", Kind: KindCron, CronExpression: "0 6 * * *", Calendar: weeklyConfig()},
			field: "calendarConfig",
		},
		{
			name:  "cron with unknown timezone",
			def:   Definition{ID: "a", Kind: KindCron, CronExpression: "0 6 * * *", Timezone: "Nowhere/City"},
			field: "timezone",
		},
		{
			name:  "calendar without config",
			def:   Definition{ID: "a", Kind: KindCalendar},
			field: "calendarConfig",
		},
		{
			name:  "calendar with cron expression",
			def:   Definition{ID: "a", Kind: KindCalendar, CronExpression: "0 6 * * *", Calendar: weeklyConfig()},
			field: "cronExpression",
		},
		{
			name:  "calendar with top level timezone",
			def:   Definition{ID: "a", Kind: KindCalendar, Timezone: "UTC", Calendar: weeklyConfig()},
			field: "timezone",
		},
		{
			name: "calendar with top level exclusions",
			def: Definition{ID: "a", Kind: KindCalendar, Calendar: weeklyConfig(),
				ExclusionDates: []Date{MustParseDate("2024-01-01")}},
			field: "exclusionDates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDefinition))

			var invalidErr *InvalidDefinitionError
			require.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.field, invalidErr.Field)
			assert.Equal(t, tt.def.ID, invalidErr.ID)
		})
	}
}

func TestCalendarConfigValidate(t *testing.T) {
	base := func() CalendarConfig { return *weeklyConfig() }

	tests := []struct {
		name   string
		mutate func(c *CalendarConfig)
		field  string
	}{
		{name: "valid", mutate: func(c *CalendarConfig) {}},
		{name: "empty timezone means UTC", mutate: func(c *CalendarConfig) { c.Timezone = "" }},
		{name: "no time slots", mutate: func(c *CalendarConfig) { c.TimeSlots = nil }, field: "calendarConfig.timeSlots"},
		{name: "duplicate slots", mutate: func(c *CalendarConfig) {
			c.TimeSlots = []TimeOfDay{{9, 0}, {9, 0}}
		}, field: "calendarConfig.timeSlots"},
		{name: "slot out of range", mutate: func(c *CalendarConfig) {
			c.TimeSlots = []TimeOfDay{{25, 0}}
		}, field: "calendarConfig.timeSlots"},
		{name: "unknown frequency", mutate: func(c *CalendarConfig) { c.Frequency = "daily" }, field: "calendarConfig.frequency"},
		{name: "weekly without days", mutate: func(c *CalendarConfig) { c.WeeklyDays = nil }, field: "calendarConfig.weeklyDays"},
		{name: "weekday out of range", mutate: func(c *CalendarConfig) { c.WeeklyDays = []Weekday{7} }, field: "calendarConfig.weeklyDays"},
		{name: "weekly with monthly days", mutate: func(c *CalendarConfig) { c.MonthlyDays = []int{1} }, field: "calendarConfig.monthlyDays"},
		{name: "monthly without days", mutate: func(c *CalendarConfig) {
			c.Frequency = FrequencyMonthly
			c.WeeklyDays = nil
		}, field: "calendarConfig.monthlyDays"},
		{name: "monthly day out of range", mutate: func(c *CalendarConfig) {
			c.Frequency = FrequencyMonthly
			c.WeeklyDays = nil
			c.MonthlyDays = []int{32}
		}, field: "calendarConfig.monthlyDays"},
		{name: "yearly without dates", mutate: func(c *CalendarConfig) {
			c.Frequency = FrequencyYearly
			c.WeeklyDays = nil
		}, field: "calendarConfig.yearlyDates"},
		{name: "yearly impossible date", mutate: func(c *CalendarConfig) {
			c.Frequency = FrequencyYearly
			c.WeeklyDays = nil
			c.YearlyDates = []MonthDay{{time.April, 31}}
		}, field: "calendarConfig.yearlyDates"},
		{name: "yearly leap day", mutate: func(c *CalendarConfig) {
			c.Frequency = FrequencyYearly
			c.WeeklyDays = nil
			c.YearlyDates = []MonthDay{{time.February, 29}}
		}},
		{name: "unknown timezone", mutate: func(c *CalendarConfig) { c.Timezone = "Atlantis/Capital" }, field: "calendarConfig.timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var invalidErr *InvalidDefinitionError
			require.True(t, errors.As(err, &invalidErr), "got %v", err)
			assert.Equal(t, tt.field, invalidErr.Field)
		})
	}
}

func TestDefinitionLocationAndExclusions(t *testing.T) {
	cron := Definition{ID: "c", Kind: KindCron, CronExpression: "0 6 * * *", Timezone: "Asia/Tokyo",
		ExclusionDates: []Date{MustParseDate("2024-05-03")}}
	loc, err := cron.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
	assert.True(t, cron.Exclusions().Contains(MustParseDate("2024-05-03")))

	cfg := weeklyConfig()
	cfg.Timezone = "America/Chicago"
	cfg.ExclusionDates = []Date{MustParseDate("2024-07-05")}
	calendar := Definition{ID: "k", Kind: KindCalendar, Calendar: cfg}
	loc, err = calendar.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", loc.String())
	assert.True(t, calendar.Exclusions().Contains(MustParseDate("2024-07-05")))
	assert.False(t, calendar.Exclusions().Contains(MustParseDate("2024-05-03")))
}

func TestDefinitionJSONShape(t *testing.T) {
	raw := `{
		"id": "weekly-report",
		"kind": "calendar",
		"isActive": true,
		"calendarConfig": {
			"frequency": "weekly",
			"timeSlots": ["09:00", "14:30"],
			"weeklyDays": [0, 4],
			"exclusionDates": ["2024-12-25"],
			"timezone": "Europe/Paris"
		}
	}`

	var def Definition
	require.NoError(t, json.Unmarshal([]byte(raw), &def))
	require.NoError(t, def.Validate())
	assert.Equal(t, KindCalendar, def.Kind)
	assert.Equal(t, []Weekday{Monday, Friday}, def.Calendar.WeeklyDays)
	assert.Equal(t, []TimeOfDay{{9, 0}, {14, 30}}, def.Calendar.TimeSlots)

	out, err := json.Marshal(def)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestSortedTimeSlots(t *testing.T) {
	cfg := CalendarConfig{TimeSlots: []TimeOfDay{{17, 0}, {8, 15}, {12, 0}}}
	assert.Equal(t, []TimeOfDay{{8, 15}, {12, 0}, {17, 0}}, cfg.SortedTimeSlots())
	assert.Equal(t, TimeOfDay{17, 0}, cfg.TimeSlots[0], "original order untouched")
}
