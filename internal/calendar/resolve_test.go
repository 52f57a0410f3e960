package calendar

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

func slots(values ...string) []schedule.TimeOfDay {
	out := make([]schedule.TimeOfDay, 0, len(values))
	for _, v := range values {
		out = append(out, schedule.MustParseTimeOfDay(v))
	}
	return out
}

func dates(values ...string) []schedule.Date {
	out := make([]schedule.Date, 0, len(values))
	for _, v := range values {
		out = append(out, schedule.MustParseDate(v))
	}
	return out
}

func requireNext(t *testing.T, result schedule.Result, want time.Time) {
	t.Helper()
	require.True(t, result.HasNext(), "expected a next run, got exhausted=%v", result.SearchExhausted)
	assert.False(t, result.SearchExhausted)
	assert.True(t, result.NextRunAt.Equal(want), "got %v want %v", result.NextRunAt, want)
}

func TestWeeklySkipsExcludedFriday(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	cfg := schedule.CalendarConfig{
		Frequency:      schedule.FrequencyWeekly,
		TimeSlots:      slots("09:00"),
		WeeklyDays:     []schedule.Weekday{schedule.Friday},
		ExclusionDates: dates("2024-03-08"),
		Timezone:       "America/New_York",
	}

	// Thursday 2024-03-07, noon local
	reference := time.Date(2024, time.March, 7, 12, 0, 0, 0, newYork)
	result, err := Resolve(cfg, reference)
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.March, 15, 9, 0, 0, 0, newYork))
	assert.Equal(t, "America/New_York", result.NextRunAt.Location().String())
}

func TestWeeklyMultipleSlotsSameDay(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency:  schedule.FrequencyWeekly,
		TimeSlots:  slots("17:00", "09:00", "12:30"),
		WeeklyDays: []schedule.Weekday{schedule.Monday, schedule.Wednesday},
		Timezone:   "UTC",
	}

	// Monday 2024-03-04
	tests := []struct {
		name      string
		reference time.Time
		want      time.Time
	}{
		{"before first slot", time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)},
		{"exactly on a slot", time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 12, 30, 0, 0, time.UTC)},
		{"between slots", time.Date(2024, time.March, 4, 13, 0, 0, 0, time.UTC), time.Date(2024, time.March, 4, 17, 0, 0, 0, time.UTC)},
		{"after last slot", time.Date(2024, time.March, 4, 18, 0, 0, 0, time.UTC), time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Resolve(cfg, tt.reference)
			require.NoError(t, err)
			requireNext(t, result, tt.want)
		})
	}
}

func TestMonthlySkipsMissingDays(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency:   schedule.FrequencyMonthly,
		TimeSlots:   slots("06:00"),
		MonthlyDays: []int{31},
		Timezone:    "UTC",
	}

	result, err := Resolve(cfg, time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.May, 31, 6, 0, 0, 0, time.UTC))

	// from June the next 31st is in July
	result, err = Resolve(cfg, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.July, 31, 6, 0, 0, 0, time.UTC))
}

func TestMonthlyFebruary(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency:   schedule.FrequencyMonthly,
		TimeSlots:   slots("00:00"),
		MonthlyDays: []int{30, 29},
		Timezone:    "UTC",
	}

	result, err := Resolve(cfg, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2023, time.March, 29, 0, 0, 0, 0, time.UTC))

	result, err = Resolve(cfg, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC))
}

func TestYearlyLeapDay(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency:   schedule.FrequencyYearly,
		TimeSlots:   slots("10:00"),
		YearlyDates: []schedule.MonthDay{{Month: time.February, Day: 29}},
		Timezone:    "UTC",
	}

	result, err := Resolve(cfg, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2028, time.February, 29, 10, 0, 0, 0, time.UTC))
}

func TestYearlyOrdersDates(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency: schedule.FrequencyYearly,
		TimeSlots: slots("08:00"),
		YearlyDates: []schedule.MonthDay{
			{Month: time.December, Day: 31},
			{Month: time.March, Day: 31},
			{Month: time.June, Day: 30},
		},
		Timezone: "UTC",
	}

	result, err := Resolve(cfg, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.June, 30, 8, 0, 0, 0, time.UTC))

	result, err = Resolve(cfg, time.Date(2024, time.December, 31, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2025, time.March, 31, 8, 0, 0, 0, time.UTC))
}

func TestAllCandidatesExcludedIsExhausted(t *testing.T) {
	var excluded []schedule.Date
	start := schedule.MustParseDate("2024-03-01")
	for i := 0; i < 70; i++ {
		excluded = append(excluded, start.AddDays(i))
	}

	cfg := schedule.CalendarConfig{
		Frequency:      schedule.FrequencyWeekly,
		TimeSlots:      slots("09:00"),
		WeeklyDays:     []schedule.Weekday{schedule.Monday, schedule.Thursday},
		ExclusionDates: excluded,
		Timezone:       "UTC",
	}

	result, err := Resolve(cfg, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, result.NextRunAt)
	assert.True(t, result.SearchExhausted)
}

func TestReferenceConvertedToConfigTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	cfg := schedule.CalendarConfig{
		Frequency:  schedule.FrequencyWeekly,
		TimeSlots:  slots("09:00"),
		WeeklyDays: []schedule.Weekday{schedule.Saturday},
		Timezone:   "Asia/Tokyo",
	}

	// Friday 2024-03-08 23:30Z is Saturday 08:30 in Tokyo
	result, err := Resolve(cfg, time.Date(2024, time.March, 8, 23, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	requireNext(t, result, time.Date(2024, time.March, 9, 9, 0, 0, 0, tokyo))
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency: schedule.FrequencyMonthly,
		TimeSlots: slots("09:00"),
		Timezone:  "UTC",
	}
	_, err := Resolve(cfg, time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, schedule.ErrInvalidDefinition))
	assert.Contains(t, err.Error(), "monthlyDays")
}

func TestResolveIsMonotonicAndRespectsExclusions(t *testing.T) {
	cfg := schedule.CalendarConfig{
		Frequency:      schedule.FrequencyMonthly,
		TimeSlots:      slots("07:15", "19:45"),
		MonthlyDays:    []int{1, 15, 31},
		ExclusionDates: dates("2024-05-15", "2024-07-01", "2024-07-31"),
		Timezone:       "Europe/Berlin",
	}
	excluded := schedule.NewExclusionSet(cfg.ExclusionDates)

	cursor := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		result, err := Resolve(cfg, cursor)
		require.NoError(t, err)
		require.True(t, result.HasNext())
		next := *result.NextRunAt
		require.True(t, next.After(cursor))
		require.False(t, schedule.IsExcluded(next, excluded), "excluded date produced: %v", next)

		again, err := Resolve(cfg, cursor)
		require.NoError(t, err)
		require.True(t, again.NextRunAt.Equal(next))
		cursor = next
	}
}
