// Package worker provides the bounded background pool that runs scan
// analysis jobs off the request path.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/flipperzap/internal/logging"
)

// Job is a unit of background work. The context carries the per-job timeout
// and is cancelled on pool shutdown.
type Job struct {
	Name string
	Run  func(ctx context.Context)
}

// Pool runs submitted jobs on a fixed set of workers with a bounded queue.
// Submit fails fast when the queue is full so callers can shed load instead
// of blocking request handlers.
type Pool struct {
	workers    int
	jobTimeout time.Duration
	queue      chan Job
	logger     *logging.Logger

	running bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	doneCh  chan struct{}

	processed int64
	timedOut  int64
}

// PoolStatus is a point-in-time snapshot of the pool
type PoolStatus struct {
	Running   bool  `json:"running"`
	Workers   int   `json:"workers"`
	QueueLen  int   `json:"queueLength"`
	QueueCap  int   `json:"queueCapacity"`
	Processed int64 `json:"processed"`
	TimedOut  int64 `json:"timedOut"`
}

// NewPool creates a pool with the given worker count, queue capacity, and
// per-job timeout
func NewPool(workers, queueSize int, jobTimeout time.Duration, logger *logging.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}

	return &Pool{
		workers:    workers,
		jobTimeout: jobTimeout,
		queue:      make(chan Job, queueSize),
		logger:     logger,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start launches the workers
func (p *Pool) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("worker pool is already running")
	}
	p.running = true
	p.mu.Unlock()

	p.logger.WithFields(map[string]interface{}{
		"workers":    p.workers,
		"queue_size": cap(p.queue),
	}).Info("Starting worker pool")

	var wg sync.WaitGroup
	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.runWorker(i, &wg)
	}

	go func() {
		wg.Wait()
		close(p.doneCh)
	}()

	return nil
}

func (p *Pool) runWorker(id int, wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case job := <-p.queue:
			p.runJob(id, job)
		}
	}
}

func (p *Pool) runJob(workerID int, job Job) {
	ctx := context.Background()
	cancel := func() {}
	if p.jobTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.jobTimeout)
	}
	defer cancel()

	logger := p.logger.WithFields(map[string]interface{}{
		"worker": workerID,
		"job":    job.Name,
	})
	ctx = logging.WithLogger(ctx, logger)

	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", fmt.Sprintf("%v", r)).Error("Job panicked")
		}
	}()

	job.Run(ctx)

	p.mu.Lock()
	p.processed++
	if ctx.Err() == context.DeadlineExceeded {
		p.timedOut++
	}
	p.mu.Unlock()

	logger.WithField("duration", time.Since(start).String()).Debug("Job finished")
}

// Submit enqueues a job. It returns an error immediately when the queue is
// full or the pool is not running.
func (p *Pool) Submit(name string, run func(ctx context.Context)) error {
	p.mu.RLock()
	running := p.running
	p.mu.RUnlock()
	if !running {
		return fmt.Errorf("worker pool is not running")
	}

	select {
	case p.queue <- Job{Name: name, Run: run}:
		return nil
	default:
		return fmt.Errorf("worker pool queue is full")
	}
}

// Stop signals the workers and waits for them to drain, bounded by ctx
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return fmt.Errorf("worker pool is not running")
	}
	p.running = false
	p.mu.Unlock()

	p.logger.Info("Stopping worker pool")
	close(p.stopCh)

	select {
	case <-p.doneCh:
		p.logger.Info("Worker pool stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Worker pool stop timed out")
		return ctx.Err()
	}
}

// Status returns a snapshot of the pool state
func (p *Pool) Status() PoolStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return PoolStatus{
		Running:   p.running,
		Workers:   p.workers,
		QueueLen:  len(p.queue),
		QueueCap:  cap(p.queue),
		Processed: p.processed,
		TimedOut:  p.timedOut,
	}
}
