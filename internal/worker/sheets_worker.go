package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"travelia/internal/database"
	"travelia/internal/domain"
	"travelia/internal/models"

	"github.com/rs/zerolog"
)

// sheetTaskPayload is persisted in SyncTask.Payload as JSON.
type sheetTaskPayload struct {
	BookingID string          `json:"booking_id"`
	Booking   *models.Booking `json:"booking,omitempty"`
	Status    string          `json:"status,omitempty"`
}

// SheetsWorker consumes sync tasks and applies them to the bookings
// spreadsheet. Tasks are persisted before queueing, so anything lost in
// flight is picked up again by the pending-task poll.
type SheetsWorker struct {
	db             *database.DB
	sheets         domain.SheetsWriter
	queue          domain.TaskQueue
	retryPolicy    RetryPolicy
	popTimeout     time.Duration
	pollInterval   time.Duration
	resyncInterval time.Duration
	batchSize      int
	logger         *zerolog.Logger
}

// NewSheetsWorker builds a worker with sane defaults.
func NewSheetsWorker(db *database.DB, sheets domain.SheetsWriter, queue domain.TaskQueue, retry RetryPolicy, logger *zerolog.Logger) *SheetsWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &SheetsWorker{
		db:             db,
		sheets:         sheets,
		queue:          queue,
		retryPolicy:    retry,
		popTimeout:     time.Second,
		pollInterval:   2 * time.Second,
		resyncInterval: 6 * time.Hour,
		batchSize:      20,
		logger:         logger,
	}
}

// EnqueueTask persists the task and schedules it on the queue.
func (w *SheetsWorker) EnqueueTask(ctx context.Context, taskType, bookingID string, booking *models.Booking, status string) error {
	if taskType == "" {
		return errors.New("task type is required")
	}
	if bookingID == "" && (booking == nil || booking.IDBooking == "") {
		return errors.New("booking id is required")
	}
	if bookingID == "" {
		bookingID = booking.IDBooking
	}

	payload := sheetTaskPayload{
		BookingID: bookingID,
		Booking:   booking,
		Status:    status,
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	syncTask := models.SyncTask{
		TaskType:  taskType,
		BookingID: bookingID,
		Payload:   string(payloadBytes),
		Status:    "pending",
		CreatedAt: time.Now(),
	}

	if err := w.db.CreateSyncTask(ctx, &syncTask); err != nil {
		return fmt.Errorf("persist sync task: %w", err)
	}

	if err := w.queue.Push(ctx, &syncTask); err != nil {
		w.logger.Warn().Err(err).Str("task_id", syncTask.ID).Msg("Queue push failed, task left for polling")
	}
	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *SheetsWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Sheets worker started")
	defer w.logger.Info().Msg("Sheets worker stopped")

	if w.resyncInterval > 0 {
		go w.resyncLoop(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		task, err := w.queue.Pop(ctx, w.popTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.logger.Error().Err(err).Msg("Queue pop failed")
		}
		if task != nil {
			w.processTask(ctx, task)
			continue
		}

		tasks, err := w.db.GetPendingSyncTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("Fetch pending sync tasks failed")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *SheetsWorker) resyncLoop(ctx context.Context) {
	ticker := time.NewTicker(w.resyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.FullResync(ctx); err != nil {
				w.logger.Error().Err(err).Msg("Full sheet resync failed")
			}
		}
	}
}

// FullResync rewrites the whole bookings sheet from the store. Covers
// rows that drifted through manual edits or dead-lettered tasks.
func (w *SheetsWorker) FullResync(ctx context.Context) error {
	bookings, err := w.db.ListBookings(ctx)
	if err != nil {
		return fmt.Errorf("list bookings: %w", err)
	}

	if err := w.sheets.ReplaceBookingsSheet(ctx, bookings); err != nil {
		return fmt.Errorf("replace bookings sheet: %w", err)
	}

	w.logger.Info().Int("count", len(bookings)).Msg("Bookings sheet rewritten")
	return nil
}

func (w *SheetsWorker) processTask(ctx context.Context, task *models.SyncTask) {
	var payload sheetTaskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}

	if err := w.handleSheetTask(ctx, task.TaskType, payload); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("Mark completed failed")
	}
}

func (w *SheetsWorker) handleSheetTask(ctx context.Context, taskType string, payload sheetTaskPayload) error {
	switch taskType {
	case models.SyncTaskUpsert:
		if payload.Booking == nil {
			return errors.New("booking payload missing")
		}
		return w.sheets.UpsertBooking(ctx, payload.Booking)
	case models.SyncTaskDelete:
		if payload.BookingID == "" {
			return errors.New("booking id missing")
		}
		return w.sheets.DeleteBooking(ctx, payload.BookingID)
	case models.SyncTaskUpdateStatus:
		if payload.BookingID == "" || payload.Status == "" {
			return errors.New("booking id or status missing")
		}
		return w.sheets.UpdateBookingStatus(ctx, payload.BookingID, payload.Status)
	default:
		return fmt.Errorf("unknown task type: %s", taskType)
	}
}

func (w *SheetsWorker) retryOrFail(ctx context.Context, task *models.SyncTask, cause error) {
	attempt := task.RetryCount + 1
	if w.retryPolicy.Exhausted(attempt) {
		w.failTask(ctx, task, cause)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("Mark retry failed")
	}
}

func (w *SheetsWorker) failTask(ctx context.Context, task *models.SyncTask, cause error) {
	if err := w.db.UpdateSyncTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("Mark failed failed")
	}
	if err := w.queue.PushDeadLetter(ctx, task); err != nil {
		w.logger.Error().Err(err).Str("task_id", task.ID).Msg("Dead letter push failed")
	}
}
