package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResolution(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("nextrun", reg)

	m.RecordResolution("cron", OutcomeFound, time.Millisecond)
	m.RecordResolution("cron", OutcomeFound, time.Millisecond)
	m.RecordResolution("calendar", OutcomeExhausted, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("cron", OutcomeFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues("calendar", OutcomeExhausted)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.resolutionDuration))
}

func TestSetUrgencyCountsResetsMissingLevels(t *testing.T) {
	m := New("nextrun", prometheus.NewRegistry())
	levels := []string{"overdue", "imminent"}

	m.SetUrgencyCounts(levels, map[string]int{"overdue": 3, "imminent": 1})
	m.SetUrgencyCounts(levels, map[string]int{"imminent": 2})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.runsByUrgency.WithLabelValues("overdue")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.runsByUrgency.WithLabelValues("imminent")))
}

func TestRecordRefreshAndTasks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("nextrun", reg)

	at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	m.RecordRefresh(at, 5)
	m.ObserveTask("resolve", "ok", time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshesTotal))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.lastRefresh))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.definitions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.workerTasksTotal.WithLabelValues("resolve", "ok")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "nextrun_dashboard_refreshes_total")
	assert.Contains(t, names, "nextrun_worker_tasks_total")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordResolution("cron", OutcomeFound, time.Second)
		m.SetUrgencyCounts([]string{"overdue"}, nil)
		m.RecordRefresh(time.Now(), 1)
		m.ObserveTask("resolve", "ok", time.Second)
	})
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New("nextrun", reg)
	assert.Panics(t, func() { New("nextrun", reg) })
}
