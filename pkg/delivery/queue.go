package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mauryavansham-service/prometheus"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job is one unit of outbound work
type Job struct {
	ID   string
	Kind string
	Run  func(ctx context.Context) error
}

// Queue runs jobs on a fixed pool of workers fed by a bounded channel.
// Enqueue never blocks the caller; a full or closed queue rejects the job.
type Queue struct {
	jobs    chan Job
	workers int
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewQueue creates a queue. Call Start before enqueueing.
func NewQueue(size, workers int, timeout time.Duration, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{
		jobs:    make(chan Job, size),
		workers: workers,
		timeout: timeout,
		log:     log.Named("delivery"),
	}
}

// Start launches the worker goroutines
func (q *Queue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(i)
	}
	q.log.Info("Delivery queue started", zap.Int("workers", q.workers), zap.Int("capacity", cap(q.jobs)))
}

// Enqueue schedules job and reports whether it was accepted
func (q *Queue) Enqueue(job Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	if q.closed {
		q.log.Warn("Delivery queue closed, dropping job", zap.String("job_id", job.ID), zap.String("kind", job.Kind))
		return false
	}

	select {
	case q.jobs <- job:
		prometheus.DeliveryQueueDepth.Inc()
		return true
	default:
		q.log.Warn("Delivery queue full, dropping job", zap.String("job_id", job.ID), zap.String("kind", job.Kind))
		return false
	}
}

// Close stops accepting jobs, drains what is queued and waits for workers
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.log.Info("Delivery queue drained")
}

func (q *Queue) work(id int) {
	defer q.wg.Done()
	for job := range q.jobs {
		prometheus.DeliveryQueueDepth.Dec()
		if err := q.run(job); err != nil {
			q.log.Error("Delivery job failed",
				zap.Int("worker", id),
				zap.String("job_id", job.ID),
				zap.String("kind", job.Kind),
				zap.Error(err))
		}
	}
}

func (q *Queue) run(job Job) (err error) {
	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in delivery job: %v", r)
		}
	}()

	return job.Run(ctx)
}
