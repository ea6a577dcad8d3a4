// Package worker runs queued auto draft jobs.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/sheexliies/ViperDraft/internal/adapters/mq/queue"
	"github.com/sheexliies/ViperDraft/pkg/logger"
	"github.com/sheexliies/ViperDraft/pkg/metrics"
)

// Solver executes one job.
type Solver interface {
	Solve(ctx context.Context, job queue.Job) error
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, job queue.Job) error

// Solve calls f.
func (f SolverFunc) Solve(ctx context.Context, job queue.Job) error { return f(ctx, job) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs from a queue.
type Worker interface {
	// Run starts the worker loop until ctx is canceled, Shutdown is called
	// or the queue is closed.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in progress.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	solver Solver
	name   string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, solver Solver, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		solver:   solver,
		name:     "solver",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "solve job failed", logger.String("job_id", job.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	metrics.UpdateWorkerActive(1)
	defer func() {
		metrics.UpdateWorkerActive(0)
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	w.logger.Debug(ctx, "solve job started",
		logger.String("job_id", job.ID),
		logger.String("session", job.Session),
		logger.Duration("waited", start.Sub(job.EnqueuedAt)))

	if err := w.solver.Solve(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "solve_error")
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	return nil
}
