package repository

import (
	"context"
	"time"

	"travelia/internal/models"
)

// MemoryTaskQueue is a bounded in-process queue used when Redis is not
// configured or unreachable. Tasks queued here do not survive restarts;
// the worker also drains persisted pending tasks, so nothing is lost.
type MemoryTaskQueue struct {
	tasks chan *models.SyncTask
}

func NewMemoryTaskQueue(size int) *MemoryTaskQueue {
	if size <= 0 {
		size = models.WorkerQueueSize
	}
	return &MemoryTaskQueue{tasks: make(chan *models.SyncTask, size)}
}

func (q *MemoryTaskQueue) Push(ctx context.Context, task *models.SyncTask) error {
	select {
	case q.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PushDeadLetter is a no-op for the in-memory queue; exhausted tasks
// stay visible in the persisted sync_tasks collection with status
// "failed".
func (q *MemoryTaskQueue) PushDeadLetter(ctx context.Context, task *models.SyncTask) error {
	return nil
}

func (q *MemoryTaskQueue) Pop(ctx context.Context, timeout time.Duration) (*models.SyncTask, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case task := <-q.tasks:
		return task, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
