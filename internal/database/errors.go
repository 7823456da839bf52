package database

import "errors"

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNoTransactions      = errors.New("no transactions")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrAdminExists         = errors.New("admin username already registered")
	ErrAdminNotFound       = errors.New("admin not found")
	ErrTripExists          = errors.New("trip id already exists")
	ErrTripNotFound        = errors.New("trip not found")
	ErrItineraryNotFound   = errors.New("itinerary not found")
	ErrInvalidIndex        = errors.New("index out of range")
	ErrSyncTaskNotFound    = errors.New("sync task not found")
)
