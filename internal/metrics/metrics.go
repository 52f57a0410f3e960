// Package metrics exports resolution and dashboard metrics to Prometheus.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for resolutions_total.
const (
	OutcomeFound     = "found"
	OutcomeExhausted = "exhausted"
	OutcomeInactive  = "inactive"
	OutcomeInvalid   = "invalid"
)

type Metrics struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	runsByUrgency      *prometheus.GaugeVec
	refreshesTotal     prometheus.Counter
	lastRefresh        prometheus.Gauge
	definitions        prometheus.Gauge
	workerTasksTotal   *prometheus.CounterVec
	workerTaskDuration *prometheus.HistogramVec
}

// New creates the collectors under namespace and registers them with reg
// (the default registerer when nil).
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Schedule resolutions by definition kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Time spent resolving the next run of a definition",
				Buckets:   []float64{.00001, .0001, .001, .01, .05, .1, .5, 1},
			},
			[]string{"kind"},
		),
		runsByUrgency: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "runs_by_urgency",
				Help:      "Definitions in the latest dashboard snapshot per urgency level",
			},
			[]string{"level"},
		),
		refreshesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_refreshes_total",
				Help:      "Completed dashboard refreshes",
			},
		),
		lastRefresh: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dashboard_last_refresh_timestamp_seconds",
				Help:      "Unix time of the latest dashboard refresh",
			},
		),
		definitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "definitions",
				Help:      "Definitions loaded from the store",
			},
		),
		workerTasksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "worker_tasks_total",
				Help:      "Worker pool tasks by type and status",
			},
			[]string{"type", "status"},
		),
		workerTaskDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "worker_task_duration_seconds",
				Help:      "Worker pool task duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"type"},
		),
	}

	reg.MustRegister(
		m.resolutionsTotal,
		m.resolutionDuration,
		m.runsByUrgency,
		m.refreshesTotal,
		m.lastRefresh,
		m.definitions,
		m.workerTasksTotal,
		m.workerTaskDuration,
	)
	return m
}

// RecordResolution counts one resolution and its duration.
func (m *Metrics) RecordResolution(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(kind, outcome).Inc()
	m.resolutionDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// SetUrgencyCounts replaces the per-level gauge values. Levels missing from
// counts are reset to zero.
func (m *Metrics) SetUrgencyCounts(levels []string, counts map[string]int) {
	if m == nil {
		return
	}
	for _, level := range levels {
		m.runsByUrgency.WithLabelValues(level).Set(float64(counts[level]))
	}
}

// RecordRefresh marks a completed dashboard refresh.
func (m *Metrics) RecordRefresh(at time.Time, definitions int) {
	if m == nil {
		return
	}
	m.refreshesTotal.Inc()
	m.lastRefresh.Set(float64(at.Unix()))
	m.definitions.Set(float64(definitions))
}

// ObserveTask implements workers.Observer.
func (m *Metrics) ObserveTask(taskType, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.workerTasksTotal.WithLabelValues(taskType, status).Inc()
	m.workerTaskDuration.WithLabelValues(taskType).Observe(d.Seconds())
}
