package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aatumaykin/nextrun/internal/logger"
)

// WorkerPool manages a fixed set of goroutine workers.
type WorkerPool struct {
	taskQueue   chan Task
	resultCh    chan Result
	workers     int
	taskTimeout time.Duration

	execMu    sync.RWMutex
	executors map[string]TaskExecutor

	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once

	logger   *logger.Logger
	observer Observer

	metricsMu sync.RWMutex
	metrics   PoolMetrics
}

// Option configures a WorkerPool.
type Option func(*WorkerPool)

// WithTaskTimeout bounds every task; zero disables the bound.
func WithTaskTimeout(d time.Duration) Option {
	return func(p *WorkerPool) { p.taskTimeout = d }
}

// WithObserver reports task outcomes to o.
func WithObserver(o Observer) Option {
	return func(p *WorkerPool) { p.observer = o }
}

// NewPool creates a pool with the given number of workers and queue size.
// Non-positive values fall back to the defaults.
func NewPool(workers, queueSize int, log *logger.Logger, opts ...Option) *WorkerPool {
	if workers <= 0 {
		workers = DefaultPoolSize
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		taskQueue:   make(chan Task, queueSize),
		resultCh:    make(chan Result, queueSize),
		workers:     workers,
		taskTimeout: DefaultTaskTimeout,
		executors:   make(map[string]TaskExecutor),
		ctx:         ctx,
		cancel:      cancel,
		logger:      log.WithComponent("workers"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register binds an executor to a task type, replacing any previous one.
func (p *WorkerPool) Register(taskType string, exec TaskExecutor) {
	p.execMu.Lock()
	defer p.execMu.Unlock()
	p.executors[taskType] = exec
}

// Start launches the worker goroutines.
func (p *WorkerPool) Start() {
	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "queue_size", Value: cap(p.taskQueue)})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit enqueues a task whose result is delivered on Results. It blocks
// while the queue is full.
func (p *WorkerPool) Submit(ctx context.Context, task Task) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolStopped
	default:
	}

	select {
	case p.taskQueue <- task:
		p.addSubmitted()
		p.logger.DebugCtx(ctx, "task submitted",
			logger.Field{Key: "task_id", Value: task.ID},
			logger.Field{Key: "task_type", Value: task.Type})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// RunBatch runs tasks concurrently and returns their results in submission
// order. Batch results bypass the Results channel. If ctx is cancelled
// before every task is queued, the error is returned together with the
// results collected for the queued ones.
func (p *WorkerPool) RunBatch(ctx context.Context, tasks []Task) ([]Result, error) {
	reply := make(chan batchReply, len(tasks))

	queued := 0
	var submitErr error
	for i, task := range tasks {
		task.reply = reply
		task.batchIndex = i
		if task.ID == "" {
			task.ID = fmt.Sprintf("batch-%d", i)
		}
		if err := p.Submit(ctx, task); err != nil {
			submitErr = err
			break
		}
		queued++
	}

	results := make([]Result, len(tasks))
	for n := 0; n < queued; n++ {
		select {
		case r := <-reply:
			results[r.index] = r.result
		case <-p.ctx.Done():
			return results[:queued], ErrPoolStopped
		}
	}
	return results[:queued], submitErr
}

// Results delivers results of tasks submitted with Submit.
func (p *WorkerPool) Results() <-chan Result {
	return p.resultCh
}

// Stop cancels the pool and waits for in-flight tasks. Calling Stop more
// than once is safe.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
		close(p.resultCh)

		m := p.Metrics()
		p.logger.Info("worker pool stopped",
			logger.Field{Key: "tasks_submitted", Value: m.TasksSubmitted},
			logger.Field{Key: "tasks_completed", Value: m.TasksCompleted},
			logger.Field{Key: "tasks_failed", Value: m.TasksFailed})
	})
}

// WorkerCount returns the number of workers.
func (p *WorkerPool) WorkerCount() int {
	return p.workers
}

// QueueSize returns the number of tasks waiting to be picked up.
func (p *WorkerPool) QueueSize() int {
	return len(p.taskQueue)
}

func (p *WorkerPool) executor(taskType string) (TaskExecutor, bool) {
	p.execMu.RLock()
	defer p.execMu.RUnlock()
	exec, ok := p.executors[taskType]
	return exec, ok
}
