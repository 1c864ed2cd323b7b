package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/observability"
)

// ErrHandlerNotFound is recorded on jobs whose type has no handler.
var ErrHandlerNotFound = errors.New("worker: no handler registered")

// HandlerFunc processes one job payload.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) error

// Worker pops jobs off a Queue and dispatches them by type.
type Worker struct {
	queue       Queue
	logger      *zap.Logger
	metrics     *observability.Metrics
	pollTimeout time.Duration
	maxAttempts int
	jobTimeout  time.Duration

	mu       sync.RWMutex
	handlers map[JobType]HandlerFunc
}

// New creates a worker for queue.
func New(queue Queue, logger *zap.Logger, metrics *observability.Metrics, cfg config.WorkerConfig) *Worker {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Worker{
		queue:       queue,
		logger:      logger,
		metrics:     metrics,
		pollTimeout: cfg.PollTimeout,
		maxAttempts: maxAttempts,
		jobTimeout:  time.Minute,
		handlers:    make(map[JobType]HandlerFunc),
	}
}

// Handle registers handler for jobType, replacing any previous one.
func (w *Worker) Handle(jobType JobType, handler HandlerFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[jobType] = handler
}

// Run processes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker started", zap.Duration("poll_timeout", w.pollTimeout), zap.Int("max_attempts", w.maxAttempts))
	for {
		if ctx.Err() != nil {
			w.logger.Info("worker stopped")
			return nil
		}
		job, err := w.queue.Pop(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Error("pop job", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}
		w.Process(ctx, *job)
	}
}

// Process runs a single job, re-enqueueing it on failure until maxAttempts is reached.
func (w *Worker) Process(ctx context.Context, job Job) {
	start := time.Now()
	log := w.logger.With(zap.String("job_id", job.ID), zap.String("job_type", string(job.Type)))

	w.mu.RLock()
	handler, ok := w.handlers[job.Type]
	w.mu.RUnlock()
	if !ok {
		job.LastError = ErrHandlerNotFound.Error()
		log.Error("no handler registered for job type")
		w.bury(ctx, job, log)
		w.metrics.RecordJob(string(job.Type), "dead", time.Since(start))
		return
	}

	err := w.execute(ctx, handler, job)
	if err == nil {
		log.Info("job completed", zap.Duration("duration", time.Since(start)))
		w.metrics.RecordJob(string(job.Type), "success", time.Since(start))
		return
	}

	job.Attempts++
	job.LastError = err.Error()
	if job.Attempts >= w.maxAttempts {
		log.Error("job failed permanently", zap.Int("attempts", job.Attempts), zap.Error(err))
		w.bury(ctx, job, log)
		w.metrics.RecordJob(string(job.Type), "dead", time.Since(start))
		return
	}

	log.Warn("job failed, retrying", zap.Int("attempts", job.Attempts), zap.Error(err))
	if pushErr := w.queue.Push(context.WithoutCancel(ctx), job); pushErr != nil {
		log.Error("requeue job", zap.Error(pushErr))
	}
	w.metrics.RecordJob(string(job.Type), "retry", time.Since(start))
}

func (w *Worker) execute(ctx context.Context, handler HandlerFunc, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in handler: %v", r)
		}
	}()
	// Detached from ctx so shutdown lets the current job finish.
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.jobTimeout)
	defer cancel()
	return handler(jobCtx, job.Payload)
}

func (w *Worker) bury(ctx context.Context, job Job, log *zap.Logger) {
	if err := w.queue.Bury(context.WithoutCancel(ctx), job); err != nil {
		log.Error("bury job", zap.Error(err))
	}
}
