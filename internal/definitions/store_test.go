package definitions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/nextrun/internal/cron"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/schedule"
)

func cronDef(id, expr string) schedule.Definition {
	return schedule.Definition{ID: id, Kind: schedule.KindCron, CronExpression: expr, IsActive: true}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "store", "schedules.jsonl"), logger.Nop())
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	defs, err := newTestStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestUpsertInsertsAndReplaces(t *testing.T) {
	store := newTestStore(t)

	replaced, err := store.Upsert(cronDef("a", "0 6 * * *"), cronDef("b", "0 7 * * *"))
	require.NoError(t, err)
	assert.Zero(t, replaced)

	replaced, err = store.Upsert(cronDef("a", "30 6 * * *"), cronDef("c", "0 8 * * *"))
	require.NoError(t, err)
	assert.Equal(t, 1, replaced)

	defs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, defs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{defs[0].ID, defs[1].ID, defs[2].ID})
	assert.Equal(t, "30 6 * * *", defs[0].CronExpression)

	got, err := store.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "0 7 * * *", got.CronExpression)

	_, err = os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestUpsertRejectsInvalidWithoutWriting(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Upsert(cronDef("keep", "0 6 * * *"))
	require.NoError(t, err)

	_, err = store.Upsert(cronDef("new", "0 6 * * *"), cronDef("bad", "61 * * * *"), schedule.Definition{ID: "x", Kind: "hourly"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cron.ErrMalformedExpression)
	assert.ErrorIs(t, err, schedule.ErrInvalidDefinition)

	defs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "keep", defs[0].ID)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Upsert(cronDef("a", "0 6 * * *"), cronDef("b", "0 7 * * *"))
	require.NoError(t, err)

	require.NoError(t, store.Remove("a"))
	assert.ErrorIs(t, store.Remove("a"), ErrNotFound)

	_, err = store.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)

	defs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "b", defs[0].ID)
}

func TestLoadSkipsUndecodableLines(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))

	content := strings.Join([]string{
		`{"id":"ok","kind":"cron","cronExpression":"0 6 * * *","isActive":true}`,
		`not json`,
		``,
		`{"id":"cal","kind":"calendar","calendarConfig":{"frequency":"weekly","timeSlots":["09:00"],"weeklyDays":[4]},"isActive":false}`,
	}, "\n")
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0644))

	defs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "ok", defs[0].ID)
	assert.Equal(t, schedule.KindCalendar, defs[1].Kind)
	require.NotNil(t, defs[1].Calendar)
	assert.Equal(t, schedule.Weekday(4), defs[1].Calendar.WeeklyDays[0])
}

func TestWritesKeepUndecodableLines(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))

	content := strings.Join([]string{
		`{"id":"ok","kind":"cron","cronExpression":"0 6 * * *","isActive":true}`,
		`{"id":"half-written","kind":`,
		`{"id":"gone","kind":"cron","cronExpression":"0 7 * * *","isActive":true}`,
	}, "\n")
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0644))

	_, err := store.Upsert(cronDef("new", "0 8 * * *"))
	require.NoError(t, err)
	require.NoError(t, store.Remove("gone"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"id":"ok"`)
	assert.Equal(t, `{"id":"half-written","kind":`, lines[1])
	assert.Contains(t, lines[2], `"id":"new"`)

	defs, err := store.Load()
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "new", defs[1].ID)
}

func TestStoredCalendarRoundTrip(t *testing.T) {
	store := newTestStore(t)
	def := schedule.Definition{
		ID:   "monthly",
		Kind: schedule.KindCalendar,
		Calendar: &schedule.CalendarConfig{
			Frequency:      schedule.FrequencyMonthly,
			TimeSlots:      []schedule.TimeOfDay{schedule.MustParseTimeOfDay("23:30")},
			MonthlyDays:    []int{1, 31},
			ExclusionDates: []schedule.Date{schedule.MustParseDate("2024-12-31")},
			Timezone:       "Asia/Tokyo",
		},
		IsActive: true,
	}
	_, err := store.Upsert(def)
	require.NoError(t, err)

	got, err := store.Get("monthly")
	require.NoError(t, err)
	assert.Equal(t, def, got)
}
