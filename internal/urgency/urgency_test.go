package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/nextrun/internal/schedule"
)

var now = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := now.Add(d)
	return &t
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		next  *time.Time
		level Level
		text  string
	}{
		{"absent", nil, NotScheduled, "Not scheduled"},
		{"one second late", at(-time.Second), Overdue, "Overdue"},
		{"a day late", at(-24 * time.Hour), Overdue, "Overdue"},
		{"right now", at(0), Imminent, "In 0m"},
		{"in 45 minutes", at(45 * time.Minute), Imminent, "In 45m"},
		{"in 59m59s", at(time.Hour - time.Second), Imminent, "In 59m"},
		{"exactly one hour", at(time.Hour), DueSoon, "In 1h 0m"},
		{"in 3h05m", at(3*time.Hour + 5*time.Minute), DueSoon, "In 3h 5m"},
		{"just under a day", at(24*time.Hour - time.Minute), DueSoon, "In 23h 59m"},
		{"exactly a day", at(24 * time.Hour), Scheduled, "Mar 2, 2024 12:00 PM UTC"},
		{"next week", at(7*24*time.Hour + 90*time.Minute), Scheduled, "Mar 8, 2024 1:30 PM UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.next, now)
			assert.Equal(t, tt.level, got.Level)
			assert.Equal(t, tt.text, got.Text)
		})
	}
}

func TestClassifyOneHourBoundaryIsDueSoon(t *testing.T) {
	got := Classify(at(60*time.Minute), now)
	assert.Equal(t, DueSoon, got.Level)
	assert.NotEqual(t, Imminent, got.Level)
}

func TestClassifyResult(t *testing.T) {
	assert.Equal(t, Classification{Level: NotScheduled, Text: TextNoUpcomingRuns},
		ClassifyResult(schedule.Exhausted(), now))
	assert.Equal(t, Classification{Level: NotScheduled, Text: TextNotScheduled},
		ClassifyResult(schedule.Result{}, now))
	assert.Equal(t, Imminent, ClassifyResult(schedule.Found(now.Add(10*time.Minute)), now).Level)
}

func TestFormatterLocales(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	instant := time.Date(2024, time.March, 15, 9, 5, 0, 0, berlin)

	tests := []struct {
		locale string
		want   string
		tag    string
	}{
		{"en-US", "Mar 15, 2024 9:05 AM CET", "en-US"},
		{"en-GB", "15 Mar 2024 09:05 CET", "en-GB"},
		{"de-DE", "15.03.2024 09:05 CET", "de"},
		{"fr", "15/03/2024 09:05 CET", "fr"},
		{"ru", "15.03.2024 09:05 CET", "ru"},
		{"ja", "Mar 15, 2024 9:05 AM CET", "en-US"},
		{"not a locale!", "Mar 15, 2024 9:05 AM CET", "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			f := NewFormatter(tt.locale)
			assert.Equal(t, tt.want, f.Absolute(instant))
			assert.Equal(t, tt.tag, f.Locale())
		})
	}
}

func TestScheduledTextUsesRunLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	next := now.Add(48 * time.Hour).In(tokyo)
	got := NewFormatter("en-GB").Classify(&next, now)
	assert.Equal(t, Scheduled, got.Level)
	assert.Equal(t, "3 Mar 2024 21:00 JST", got.Text)
}
