package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
)

type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue runs jobs on a fixed pool of workers. Failed jobs are retried with a
// linear backoff up to maxAttempts; a full buffer drops the job.
type Queue struct {
	log         zerolog.Logger
	jobs        chan Job
	workers     int
	maxAttempts int
	backoff     time.Duration

	wg       sync.WaitGroup
	cancel   context.CancelFunc
	stopping chan struct{}
	mu       sync.RWMutex
	closed   bool
}

func NewQueue(log zerolog.Logger, size, workers, maxAttempts int) *Queue {
	if size <= 0 {
		size = 100
	}
	if workers <= 0 {
		workers = 1
	}
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Queue{
		log:         log.With().Str("component", "jobs").Logger(),
		jobs:        make(chan Job, size),
		workers:     workers,
		maxAttempts: maxAttempts,
		backoff:     2 * time.Second,
		stopping:    make(chan struct{}),
	}
}

func (q *Queue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()

	for job := range q.jobs {
		metrics.JobQueueSize.Dec()
		q.run(ctx, job)
	}
}

func (q *Queue) run(ctx context.Context, job Job) {
	for attempt := 1; attempt <= q.maxAttempts; attempt++ {
		err := job.Run(ctx)
		if err == nil {
			metrics.JobsTotal.WithLabelValues(job.Name, "ok").Inc()
			return
		}

		q.log.Error().Err(err).
			Str("job", job.Name).
			Int("attempt", attempt).
			Msg("job failed")

		if attempt == q.maxAttempts {
			break
		}

		metrics.JobsTotal.WithLabelValues(job.Name, "retry").Inc()

		select {
		case <-ctx.Done():
			metrics.JobsTotal.WithLabelValues(job.Name, "aborted").Inc()
			return
		case <-q.stopping:
			metrics.JobsTotal.WithLabelValues(job.Name, "aborted").Inc()
			return
		case <-time.After(time.Duration(attempt) * q.backoff):
		}
	}

	metrics.JobsTotal.WithLabelValues(job.Name, "failed").Inc()
}

// Enqueue never blocks; it reports false when the job was dropped.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}

	select {
	case q.jobs <- job:
		metrics.JobQueueSize.Inc()
		return true
	default:
		q.log.Error().Str("job", job.Name).Msg("job queue full, dropping job")
		metrics.JobsTotal.WithLabelValues(job.Name, "dropped").Inc()
		return false
	}
}

// Stop runs every queued job once more, then returns. Retries waiting on
// backoff are abandoned.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.stopping)
	close(q.jobs)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		q.log.Warn().Msg("job queue stop timed out")
	}

	if q.cancel != nil {
		q.cancel()
	}
}
