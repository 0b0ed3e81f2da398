// Package async runs pipeline jobs on a bounded worker pool.
package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/voucher-standardizer/internal/common"
)

// ErrClosed is returned by Enqueue after Shutdown.
var ErrClosed = errors.New("queue is shutting down")

// Job is one voucher file to process.
type Job struct {
	Path        string
	Force       bool // render even with blocking issues
	SubmittedAt time.Time
	TraceID     string
}

// Handler processes one job. Each call gets its own context with the job's trace ID as
// request ID and the per-job timeout applied.
type Handler func(ctx context.Context, job Job) error

// Outcome records how a job finished.
type Outcome struct {
	Job      Job
	Err      error
	Duration time.Duration
}

type Queue struct {
	handle  Handler
	base    context.Context
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex // guards closed and sends on ch
	closed bool

	resMu    sync.Mutex
	outcomes []Outcome
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewQueue starts the workers. Cancelling ctx cancels running and queued jobs.
func NewQueue(ctx context.Context, handle Handler, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		handle:  handle,
		base:    ctx,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) run(workerID int, job Job) {
	start := time.Now()
	ctx := common.WithSource(common.WithRequestID(q.base, job.TraceID), job.Path)
	ctx, cancel := common.WithTimeout(ctx, q.timeout)

	var err error
	if err = q.base.Err(); err == nil {
		err = q.handle(ctx, job)
	}
	cancel()

	out := Outcome{Job: job, Err: err, Duration: time.Since(start)}
	q.resMu.Lock()
	q.outcomes = append(q.outcomes, out)
	q.resMu.Unlock()

	if err != nil {
		q.logger.Error("batch.job.failed",
			"worker_id", workerID, "req_id", job.TraceID, "path", job.Path,
			"code", common.ErrorCode(err), "error", err)
		return
	}
	q.logger.Info("batch.job.ok",
		"worker_id", workerID, "req_id", job.TraceID, "path", job.Path,
		"elapsed_ms", out.Duration.Milliseconds())
}

// Enqueue adds a job, blocking while the queue is full.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	if job.TraceID == "" {
		job.TraceID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrClosed
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued file for processing", "path", job.Path, "force", job.Force)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or ctx to end.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Debug("queue drained, shutdown complete")
	}
}

// Outcomes returns the finished jobs so far, in completion order.
func (q *Queue) Outcomes() []Outcome {
	q.resMu.Lock()
	defer q.resMu.Unlock()
	out := make([]Outcome, len(q.outcomes))
	copy(out, q.outcomes)
	return out
}
