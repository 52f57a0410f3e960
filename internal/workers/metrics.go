package workers

// Metrics returns a snapshot of the pool counters.
func (p *WorkerPool) Metrics() PoolMetrics {
	p.metricsMu.RLock()
	defer p.metricsMu.RUnlock()
	return p.metrics
}

func (p *WorkerPool) addSubmitted() {
	p.metricsMu.Lock()
	defer p.metricsMu.Unlock()
	p.metrics.TasksSubmitted++
}

func (p *WorkerPool) record(r Result) {
	status := "ok"
	if r.Error != nil {
		status = "error"
	}

	p.metricsMu.Lock()
	if r.Error != nil {
		p.metrics.TasksFailed++
	} else {
		p.metrics.TasksCompleted++
	}
	p.metrics.TotalDuration += r.Duration
	p.metricsMu.Unlock()

	if p.observer != nil {
		p.observer.ObserveTask(r.Type, status, r.Duration)
	}
}
