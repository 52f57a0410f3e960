package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/aatumaykin/nextrun/internal/logger"
)

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	p.logger.DebugCtx(p.ctx, "worker started", logger.Field{Key: "worker_id", Value: id})

	for {
		select {
		case task := <-p.taskQueue:
			p.processTask(id, task)
		case <-p.ctx.Done():
			p.logger.DebugCtx(p.ctx, "worker stopping", logger.Field{Key: "worker_id", Value: id})
			return
		}
	}
}

func (p *WorkerPool) processTask(workerID int, task Task) {
	start := time.Now()

	execCtx := p.ctx
	if task.Context != nil {
		execCtx = task.Context
	}
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(execCtx, p.taskTimeout)
		defer cancel()
	}

	result := p.execute(execCtx, task)
	result.Duration = time.Since(start)
	p.record(result)

	out := p.resultCh
	if task.reply != nil {
		// reply is buffered for the whole batch
		task.reply <- batchReply{index: task.batchIndex, result: result}
	} else {
		select {
		case out <- result:
		case <-p.ctx.Done():
			p.logger.Warn("dropping result, pool shutting down",
				logger.Field{Key: "task_id", Value: task.ID})
		}
	}

	p.logger.Debug("task processed",
		logger.Field{Key: "worker_id", Value: workerID},
		logger.Field{Key: "task_id", Value: task.ID},
		logger.Field{Key: "duration_ms", Value: result.Duration.Milliseconds()})
}

// execute runs the registered executor with panic recovery.
func (p *WorkerPool) execute(ctx context.Context, task Task) (result Result) {
	result = Result{TaskID: task.ID, Type: task.Type}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	exec, ok := p.executor(task.Type)
	if !ok {
		result.Error = fmt.Errorf("%w: %s", ErrUnknownTaskType, task.Type)
		return result
	}

	defer func() {
		if r := recover(); r != nil {
			result.Value = nil
			result.Error = fmt.Errorf("panic during task execution: %v", r)
			p.logger.Error("task panic recovered", result.Error,
				logger.Field{Key: "task_id", Value: task.ID})
		}
	}()

	result.Value, result.Error = exec(ctx, task)
	return result
}
