package repository

import (
	"context"
	"sync/atomic"
	"time"

	"travelia/internal/domain"
	"travelia/internal/models"

	"github.com/rs/zerolog"
)

// FailoverTaskQueue prefers the primary queue and falls back to the
// in-memory one while the primary is down, retrying the primary once a
// minute.
type FailoverTaskQueue struct {
	primary  domain.TaskQueue
	fallback domain.TaskQueue
	logger   *zerolog.Logger
	isDown   atomic.Bool
	// lastCheck holds the unix-nano timestamp of the last failed
	// primary attempt. Accessed from multiple goroutines.
	lastCheck atomic.Int64
}

func NewFailoverTaskQueue(primary, fallback domain.TaskQueue, logger *zerolog.Logger) *FailoverTaskQueue {
	return &FailoverTaskQueue{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (q *FailoverTaskQueue) markDown() {
	q.isDown.Store(true)
	q.lastCheck.Store(time.Now().UnixNano())
}

func (q *FailoverTaskQueue) retryDue() bool {
	return time.Since(time.Unix(0, q.lastCheck.Load())) > time.Minute
}

func (q *FailoverTaskQueue) Push(ctx context.Context, task *models.SyncTask) error {
	if !q.isDown.Load() {
		err := q.primary.Push(ctx, task)
		if err == nil {
			return nil
		}
		q.logger.Error().Err(err).Msg("Primary task queue failed, falling back to memory")
		q.markDown()
	}

	// Try to recover after 1 minute
	if q.isDown.Load() && q.retryDue() {
		err := q.primary.Push(ctx, task)
		if err == nil {
			q.isDown.Store(false)
			return nil
		}
		q.lastCheck.Store(time.Now().UnixNano())
	}

	return q.fallback.Push(ctx, task)
}

func (q *FailoverTaskQueue) PushDeadLetter(ctx context.Context, task *models.SyncTask) error {
	if !q.isDown.Load() {
		err := q.primary.PushDeadLetter(ctx, task)
		if err == nil {
			return nil
		}
		q.logger.Error().Err(err).Msg("Primary task queue failed, falling back to memory")
		q.markDown()
	}

	return q.fallback.PushDeadLetter(ctx, task)
}

func (q *FailoverTaskQueue) Pop(ctx context.Context, timeout time.Duration) (*models.SyncTask, error) {
	if !q.isDown.Load() {
		task, err := q.primary.Pop(ctx, timeout)
		if err == nil {
			return task, nil
		}
		q.logger.Error().Err(err).Msg("Primary task queue failed, falling back to memory")
		q.markDown()
	}

	return q.fallback.Pop(ctx, timeout)
}
