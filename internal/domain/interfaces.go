package domain

import (
	"context"
	"time"

	"travelia/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Repository interface {
	ListBookings(ctx context.Context) ([]models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	AppendBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id, status string) error
	DeleteBooking(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	AppendTransaction(ctx context.Context, trx *models.Transaction) error
	UpdateTransaction(ctx context.Context, id string, mutate func(*models.Transaction)) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	DeleteTransactionsByBooking(ctx context.Context, bookingID string) (int, error)
	LatestTransaction(ctx context.Context) (*models.Transaction, error)

	ListPackages(ctx context.Context) ([]models.TourPackage, error)

	CreateSyncTask(ctx context.Context, task *models.SyncTask) error
	GetPendingSyncTasks(ctx context.Context, limit int) ([]models.SyncTask, error)
	UpdateSyncTaskStatus(ctx context.Context, id, status, errMsg string, nextRetryAt *time.Time) error
}

// TaskQueue hands sync tasks to the worker, surviving broker outages via
// whatever failover strategy the implementation chooses.
type TaskQueue interface {
	Push(ctx context.Context, task *models.SyncTask) error
	Pop(ctx context.Context, timeout time.Duration) (*models.SyncTask, error)
	PushDeadLetter(ctx context.Context, task *models.SyncTask) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type TelegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetSelf() tgbotapi.User
}

type SheetsWriter interface {
	UpsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, bookingID, status string) error
	DeleteBooking(ctx context.Context, bookingID string) error
	ReplaceBookingsSheet(ctx context.Context, bookings []models.Booking) error
}

type SyncWorker interface {
	EnqueueTask(ctx context.Context, taskType, bookingID string, booking *models.Booking, status string) error
}
