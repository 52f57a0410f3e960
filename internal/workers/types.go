// Package workers provides a bounded goroutine pool that runs typed tasks
// through registered executors. The dashboard uses it to re-resolve many
// schedule definitions concurrently.
package workers

import (
	"context"
	"errors"
	"time"
)

// Task is a unit of work dispatched to the executor registered for Type.
type Task struct {
	ID      string          // caller-chosen identifier, echoed in the Result
	Type    string          // executor key
	Payload any             // executor-specific input
	Context context.Context // optional; falls back to the pool context

	reply      chan<- batchReply
	batchIndex int
}

// batchReply carries a result back to its slot in a RunBatch call.
type batchReply struct {
	index  int
	result Result
}

// Result is the outcome of one task.
type Result struct {
	TaskID   string
	Type     string
	Value    any
	Error    error
	Duration time.Duration
}

// PoolMetrics is a snapshot of the pool counters.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksFailed    uint64
	TotalDuration  time.Duration
}

// TaskExecutor runs a single task and returns its value.
type TaskExecutor func(context.Context, Task) (any, error)

// Observer receives per-task outcomes, e.g. to export them as metrics.
type Observer interface {
	ObserveTask(taskType, status string, duration time.Duration)
}

var (
	// ErrPoolStopped is returned when submitting to a stopped pool.
	ErrPoolStopped = errors.New("worker pool stopped")
	// ErrUnknownTaskType is returned for tasks with no registered executor.
	ErrUnknownTaskType = errors.New("unknown task type")
)

const (
	DefaultTaskTimeout = 30 * time.Second
	DefaultPoolSize    = 4
	DefaultQueueSize   = 64
)
