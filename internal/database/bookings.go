package database

import (
	"context"

	"travelia/internal/models"
)

func (db *DB) ListBookings(ctx context.Context) ([]models.Booking, error) {
	lock := db.collectionLock(models.CollectionBookings)
	lock.Lock()
	defer lock.Unlock()

	bookings := []models.Booking{}
	db.load(models.CollectionBookings, &bookings)
	return bookings, nil
}

func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	bookings, _ := db.ListBookings(ctx)
	for i := range bookings {
		if bookings[i].IDBooking == id {
			return &bookings[i], nil
		}
	}
	return nil, ErrBookingNotFound
}

func (db *DB) AppendBooking(ctx context.Context, booking *models.Booking) error {
	lock := db.collectionLock(models.CollectionBookings)
	lock.Lock()
	defer lock.Unlock()

	bookings := []models.Booking{}
	db.load(models.CollectionBookings, &bookings)
	bookings = append(bookings, *booking)
	db.save(models.CollectionBookings, bookings)
	return nil
}

// UpdateBookingStatus sets the status of the booking with the given id.
// The whole read-modify-write runs under the collection lock.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) error {
	lock := db.collectionLock(models.CollectionBookings)
	lock.Lock()
	defer lock.Unlock()

	bookings := []models.Booking{}
	db.load(models.CollectionBookings, &bookings)
	for i := range bookings {
		if bookings[i].IDBooking == id {
			bookings[i].Status = status
			db.save(models.CollectionBookings, bookings)
			return nil
		}
	}
	return ErrBookingNotFound
}

func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	lock := db.collectionLock(models.CollectionBookings)
	lock.Lock()
	defer lock.Unlock()

	bookings := []models.Booking{}
	db.load(models.CollectionBookings, &bookings)

	filtered := bookings[:0]
	for _, b := range bookings {
		if b.IDBooking != id {
			filtered = append(filtered, b)
		}
	}
	if len(filtered) == len(bookings) {
		return ErrBookingNotFound
	}
	db.save(models.CollectionBookings, filtered)
	return nil
}
