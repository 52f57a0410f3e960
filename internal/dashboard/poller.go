// Package dashboard keeps an in-memory snapshot of every stored definition's
// next run and urgency. A Poller reloads the definitions on a fixed interval,
// resolves them concurrently on a worker pool and publishes the result for
// the HTTP API and the CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/nextrun/internal/businessday"
	"github.com/aatumaykin/nextrun/internal/logger"
	"github.com/aatumaykin/nextrun/internal/metrics"
	"github.com/aatumaykin/nextrun/internal/resolver"
	"github.com/aatumaykin/nextrun/internal/schedule"
	"github.com/aatumaykin/nextrun/internal/urgency"
	"github.com/aatumaykin/nextrun/internal/workers"
)

// TaskResolve is the worker pool task type used for resolutions.
const TaskResolve = "resolve"

// Source provides the definitions to track.
type Source interface {
	Load() ([]schedule.Definition, error)
}

// Runner runs a batch of tasks. *workers.WorkerPool satisfies it.
type Runner interface {
	Register(taskType string, exec workers.TaskExecutor)
	RunBatch(ctx context.Context, tasks []workers.Task) ([]workers.Result, error)
}

// Poller periodically re-resolves definitions.
type Poller struct {
	source    Source
	engine    *resolver.Engine
	runner    Runner
	formatter urgency.Formatter
	loc       *time.Location
	holidays  schedule.ExclusionSet
	interval  time.Duration
	clock     func() time.Time
	metrics   *metrics.Metrics
	logger    *logger.Logger

	mu       sync.RWMutex
	snapshot Snapshot

	refreshMu sync.Mutex

	lifecycle sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
}

// Option configures a Poller.
type Option func(*Poller)

func WithInterval(d time.Duration) Option { return func(p *Poller) { p.interval = d } }

func WithFormatter(f urgency.Formatter) Option { return func(p *Poller) { p.formatter = f } }

func WithMetrics(m *metrics.Metrics) Option { return func(p *Poller) { p.metrics = m } }

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(p *Poller) { p.clock = now } }

// WithLocation sets the zone the as-of date is computed in.
func WithLocation(loc *time.Location) Option {
	return func(p *Poller) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithHolidays makes the as-of date skip the given dates as well as weekends.
func WithHolidays(h schedule.ExclusionSet) Option { return func(p *Poller) { p.holidays = h } }

func WithLogger(l *logger.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// New builds a poller and registers the resolve executor on runner.
func New(source Source, engine *resolver.Engine, runner Runner, opts ...Option) *Poller {
	p := &Poller{
		source:    source,
		engine:    engine,
		runner:    runner,
		formatter: urgency.DefaultFormatter,
		loc:       time.UTC,
		interval:  30 * time.Second,
		clock:     time.Now,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.engine == nil {
		p.engine = resolver.New()
	}
	p.logger = p.logger.WithComponent("dashboard")
	p.runner.Register(TaskResolve, p.resolveTask)
	return p
}

type resolvePayload struct {
	def schedule.Definition
	now time.Time
}

func (p *Poller) resolveTask(_ context.Context, task workers.Task) (any, error) {
	payload, ok := task.Payload.(resolvePayload)
	if !ok {
		return nil, fmt.Errorf("unexpected payload %T", task.Payload)
	}
	return p.engine.ResolveNextRun(payload.def, payload.now)
}

// Refresh reloads and re-resolves every definition and publishes a new
// snapshot. Concurrent calls are serialised.
func (p *Poller) Refresh(ctx context.Context) (Snapshot, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	defs, err := p.source.Load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("load definitions: %w", err)
	}

	now := p.clock()
	tasks := make([]workers.Task, len(defs))
	for i, def := range defs {
		tasks[i] = workers.Task{
			ID:      def.ID,
			Type:    TaskResolve,
			Payload: resolvePayload{def: def, now: now},
			Context: ctx,
		}
	}

	results, err := p.runner.RunBatch(ctx, tasks)
	if err != nil {
		return Snapshot{}, fmt.Errorf("resolve definitions: %w", err)
	}

	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = p.row(defs[i], r, now)
	}
	SortRows(rows)

	snap := Snapshot{
		GeneratedAt: now,
		AsOf:        p.asOf(now),
		Rows:        rows,
	}

	p.mu.Lock()
	p.snapshot = snap
	p.mu.Unlock()

	p.record(snap)
	p.logger.Debug("dashboard refreshed",
		logger.Field{Key: "definitions", Value: len(rows)},
		logger.Field{Key: "as_of", Value: snap.AsOf.String()})
	return snap, nil
}

func (p *Poller) row(def schedule.Definition, r workers.Result, now time.Time) Row {
	result, _ := r.Value.(schedule.Result)
	return NewRow(def, result, r.Error, p.formatter, now)
}

func (p *Poller) asOf(now time.Time) schedule.Date {
	d, ok := businessday.AsOfExcluding(now, p.loc, p.holidays)
	if !ok {
		p.logger.Warn("holiday calendar leaves no business day within a year, ignoring holidays")
	}
	return d
}

func (p *Poller) record(snap Snapshot) {
	counts := snap.Counts()
	levels := make([]string, len(LevelOrder))
	byLevel := make(map[string]int, len(counts))
	for i, level := range LevelOrder {
		levels[i] = string(level)
		byLevel[string(level)] = counts[level]
	}
	p.metrics.SetUrgencyCounts(levels, byLevel)
	p.metrics.RecordRefresh(snap.GeneratedAt, len(snap.Rows))
}

// Snapshot returns the latest published snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Row returns the latest row for id.
func (p *Poller) Row(id string) (Row, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, row := range p.snapshot.Rows {
		if row.ID == id {
			return row, true
		}
	}
	return Row{}, false
}

// AsOf returns the default as-of date for the current instant.
func (p *Poller) AsOf() schedule.Date {
	return p.asOf(p.clock())
}

// Start performs an initial refresh and then refreshes every interval until
// ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) error {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.cron != nil {
		return errors.New("poller already started")
	}
	if p.interval <= 0 {
		return fmt.Errorf("invalid refresh interval %s", p.interval)
	}

	if _, err := p.Refresh(ctx); err != nil {
		p.logger.Error("initial dashboard refresh failed", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := cron.New(
		cron.WithLocation(p.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc("@every "+p.interval.String(), func() {
		if _, err := p.Refresh(ctx); err != nil && ctx.Err() == nil {
			p.logger.Error("dashboard refresh failed", err)
		}
	}); err != nil {
		cancel()
		return fmt.Errorf("schedule refresh: %w", err)
	}

	p.cron = c
	p.cancel = cancel
	c.Start()
	p.logger.Info("dashboard poller started", logger.Field{Key: "interval", Value: p.interval.String()})

	go func() {
		<-ctx.Done()
		p.Stop()
	}()
	return nil
}

// Stop halts periodic refreshes and waits for a running one to finish.
func (p *Poller) Stop() {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if p.cron == nil {
		return
	}
	p.cancel()
	<-p.cron.Stop().Done()
	p.cron = nil
	p.logger.Info("dashboard poller stopped")
}
