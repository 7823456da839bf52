package database

import (
	"context"
	"time"

	"travelia/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateSyncTask(ctx context.Context, task *models.SyncTask) error {
	lock := db.collectionLock(models.CollectionSyncTasks)
	lock.Lock()
	defer lock.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	tasks := []models.SyncTask{}
	db.load(models.CollectionSyncTasks, &tasks)
	tasks = append(tasks, *task)
	db.save(models.CollectionSyncTasks, tasks)
	return nil
}

// GetPendingSyncTasks returns up to limit tasks in pending or retry state
// whose retry time has passed, oldest first.
func (db *DB) GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error) {
	lock := db.collectionLock(models.CollectionSyncTasks)
	lock.Lock()
	defer lock.Unlock()

	tasks := []models.SyncTask{}
	db.load(models.CollectionSyncTasks, &tasks)

	now := time.Now()
	pending := make([]models.SyncTask, 0, limit)
	for _, t := range tasks {
		if t.Status != "pending" && t.Status != "retry" {
			continue
		}
		if t.NextRetryAt != nil && t.NextRetryAt.After(now) {
			continue
		}
		pending = append(pending, t)
		if len(pending) == limit {
			break
		}
	}
	return pending, nil
}

func (db *DB) UpdateSyncTaskStatus(ctx context.Context, id, status, errMsg string, nextRetryAt *time.Time) error {
	lock := db.collectionLock(models.CollectionSyncTasks)
	lock.Lock()
	defer lock.Unlock()

	tasks := []models.SyncTask{}
	db.load(models.CollectionSyncTasks, &tasks)
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Status = status
		tasks[i].LastError = errMsg
		tasks[i].NextRetryAt = nextRetryAt
		switch status {
		case "retry":
			tasks[i].RetryCount++
		case "completed", "failed":
			now := time.Now()
			tasks[i].ProcessedAt = &now
		}
		db.save(models.CollectionSyncTasks, tasks)
		return nil
	}
	return ErrSyncTaskNotFound
}
