package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrQueueFull  = errors.New("job queue is full")
	ErrPoolClosed = errors.New("worker pool is stopped")
)

type JobProcessor interface {
	Process(ctx context.Context, jobID uuid.UUID) error
}

// Pool runs jobs on a fixed number of goroutines fed by a buffered channel.
type Pool struct {
	processor JobProcessor
	workers   int
	jobCh     chan uuid.UUID
	closed    atomic.Bool
	logger    *zap.Logger
}

func NewPool(processor JobProcessor, workers, queueSize int, logger *zap.Logger) *Pool {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Pool{
		processor: processor,
		workers:   workers,
		jobCh:     make(chan uuid.UUID, queueSize),
		logger:    logger.Named("pool"),
	}
}

// Submit queues a job without blocking.
func (p *Pool) Submit(ctx context.Context, jobID uuid.UUID) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}
	select {
	case p.jobCh <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		queueRejected.Inc()
		return ErrQueueFull
	}
}

// Run blocks until ctx is cancelled and all workers have returned. A job
// already picked up runs to completion; its context is detached from ctx.
// Jobs still queued at shutdown are failed by the next startup sweep.
func (p *Pool) Run(ctx context.Context) {
	p.logger.Info("worker pool started", zap.Int("workers", p.workers), zap.Int("queue_size", cap(p.jobCh)))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case jobID := <-p.jobCh:
					if err := p.processor.Process(context.WithoutCancel(ctx), jobID); err != nil {
						p.logger.Debug("job ended with error",
							zap.Int("worker", n),
							zap.String("job_id", jobID.String()),
							zap.Error(err),
						)
					}
				}
			}
		}(i + 1)
	}

	<-ctx.Done()
	p.closed.Store(true)
	wg.Wait()

	p.logger.Info("worker pool stopped", zap.Int("left_in_queue", len(p.jobCh)))
}
