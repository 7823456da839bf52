package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travelia/internal/config"
	"travelia/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	syncQueueKey  = "travelia:sync_tasks"
	deadLetterKey = "travelia:sync_tasks:deadletter"
)

// RedisTaskQueue carries sync tasks through a Redis list so queued work
// survives process restarts.
type RedisTaskQueue struct {
	client *redis.Client
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisTaskQueue(client *redis.Client) *RedisTaskQueue {
	return &RedisTaskQueue{client: client}
}

func (q *RedisTaskQueue) Push(ctx context.Context, task *models.SyncTask) error {
	if q.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal sync task: %w", err)
	}
	if err := q.client.LPush(ctx, syncQueueKey, data).Err(); err != nil {
		return fmt.Errorf("failed to push sync task to redis: %w", err)
	}
	return nil
}

// Pop blocks up to timeout waiting for a task; a nil task with nil error
// means the queue stayed empty.
func (q *RedisTaskQueue) Pop(ctx context.Context, timeout time.Duration) (*models.SyncTask, error) {
	if q.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	vals, err := q.client.BRPop(ctx, timeout, syncQueueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop sync task from redis: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply length %d", len(vals))
	}

	var task models.SyncTask
	if err := json.Unmarshal([]byte(vals[1]), &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync task: %w", err)
	}
	return &task, nil
}

// PushDeadLetter parks an exhausted task for manual inspection.
func (q *RedisTaskQueue) PushDeadLetter(ctx context.Context, task *models.SyncTask) error {
	if q.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal sync task: %w", err)
	}
	if err := q.client.LPush(ctx, deadLetterKey, data).Err(); err != nil {
		return fmt.Errorf("failed to push sync task to dead letter: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
