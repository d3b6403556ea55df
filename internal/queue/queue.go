// Package queue is a bounded in-process worker pool. Enqueue is
// non-blocking: when the buffer is full the job is rejected and the
// caller decides what that means.
package queue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Job is a unit of background work.
type Job func(ctx context.Context)

// Pool runs jobs on a fixed set of workers over a bounded buffer.
type Pool struct {
	jobs    chan Job
	workers int
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a pool with the given worker count and buffer size.
func New(workers, size int, log *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if size <= 0 {
		size = 1
	}
	return &Pool{
		jobs:    make(chan Job, size),
		workers: workers,
		log:     log,
	}
}

// Start launches the workers. Jobs run with ctx; a cancelled ctx stops
// in-flight work at the next blocking call, workers drain the buffer
// until Stop closes it.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	p.log.Info("worker pool started",
		zap.Int("workers", p.workers),
		zap.Int("queue_size", cap(p.jobs)),
	)
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		job(ctx)
	}
	p.log.Debug("worker stopped", zap.Int("worker_id", id))
}

// Enqueue offers a job to the pool. Returns false when the buffer is
// full or the pool is stopped; the job is dropped in both cases.
func (p *Pool) Enqueue(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return false
	}

	select {
	case p.jobs <- job:
		return true
	default:
		return false
	}
}

// Stop rejects new jobs, drains the buffer and waits for the workers.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
	p.log.Info("worker pool stopped")
}
