package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"travelia/internal/config"
	"travelia/internal/database"
	"travelia/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderService(t *testing.T) (*OrderService, *database.DB) {
	t.Helper()
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)

	svc := NewOrderService(db, NewIDGenerator(), nil, nil, config.BookingConfig{}, &logger)
	return svc, db
}

func TestPlaceOrderLinksPair(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		Username:      "andi",
		PackageName:   "Paket Bromo 3D2N",
		PartySize:     3,
		PaymentMethod: "Transfer Bank",
	})
	require.NoError(t, err)

	assert.Equal(t, booking.IDBooking, trx.IDBooking)
	assert.Equal(t, booking.TotalAmount, trx.AmountTransferred)
	assert.Equal(t, 3*models.DefaultUnitPrice, booking.TotalAmount)
	assert.Equal(t, models.StatusAwaitingPayment, booking.Status)
	assert.Equal(t, models.VerificationPending, trx.VerificationStatus)
	assert.Nil(t, trx.ProofReference)
}

func TestPlaceOrderDefaults(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	booking, _, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		Username:    "andi",
		PackageName: "Paket Bromo 3D2N",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, booking.PartySize)
	assert.Equal(t, 300000, booking.TotalAmount)
}

func TestPlaceOrderExplicitTotalWins(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{
		Username:    "andi",
		PackageName: "Paket Bromo 3D2N",
		PartySize:   4,
		TotalAmount: 999000,
	})
	require.NoError(t, err)

	assert.Equal(t, 999000, booking.TotalAmount)
	assert.Equal(t, 999000, trx.AmountTransferred)
}

func TestUpdateVerificationStatusMapsCompleted(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	updated, propagation, err := svc.UpdateVerificationStatus(ctx, trx.IDTransaksi, models.VerificationCompleted)
	require.NoError(t, err)
	assert.Equal(t, PropagationFull, propagation)
	assert.Equal(t, models.VerificationCompleted, updated.VerificationStatus)

	got, err := db.GetBooking(ctx, booking.IDBooking)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, got.Status)
}

func TestUpdateVerificationStatusCopiesOtherValues(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	_, propagation, err := svc.UpdateVerificationStatus(ctx, trx.IDTransaksi, models.VerificationRejected)
	require.NoError(t, err)
	assert.Equal(t, PropagationFull, propagation)

	got, err := db.GetBooking(ctx, booking.IDBooking)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, got.Status)
}

func TestUpdateVerificationStatusUnknownTransaction(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	booking, _, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	_, _, err = svc.UpdateVerificationStatus(ctx, "TRX0", models.VerificationCompleted)
	assert.True(t, errors.Is(err, database.ErrTransactionNotFound))

	// Nothing may have changed.
	got, err := db.GetBooking(ctx, booking.IDBooking)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPayment, got.Status)
}

func TestUpdateVerificationStatusOrphanedTransaction(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	require.NoError(t, db.AppendTransaction(ctx, &models.Transaction{
		IDTransaksi:        "TRX1",
		IDBooking:          "BK000",
		VerificationStatus: models.VerificationPending,
	}))

	updated, propagation, err := svc.UpdateVerificationStatus(ctx, "TRX1", models.VerificationCompleted)
	require.NoError(t, err)
	assert.Equal(t, PropagationTransactionOnly, propagation)
	assert.Equal(t, models.VerificationCompleted, updated.VerificationStatus)
}

func TestAttachProofResetsVerification(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	_, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	_, _, err = svc.UpdateVerificationStatus(ctx, trx.IDTransaksi, models.VerificationCompleted)
	require.NoError(t, err)

	updated, err := svc.AttachProof(ctx, trx.IDTransaksi, "18c9a2f0.jpg", "Budi")
	require.NoError(t, err)
	require.NotNil(t, updated.ProofReference)
	assert.Equal(t, "18c9a2f0.jpg", *updated.ProofReference)
	assert.Equal(t, "Budi", updated.SenderName)
	// Re-submission always resets, even after completion.
	assert.Equal(t, models.VerificationPending, updated.VerificationStatus)
}

func TestAttachProofUnknownTransaction(t *testing.T) {
	svc, _ := newOrderService(t)

	_, err := svc.AttachProof(context.Background(), "TRX0", "x.jpg", "")
	assert.True(t, errors.Is(err, database.ErrTransactionNotFound))
}

func TestDeleteBookingDoesNotCascadeByDefault(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBooking(ctx, booking.IDBooking))

	_, err = db.GetBooking(ctx, booking.IDBooking)
	assert.True(t, errors.Is(err, database.ErrBookingNotFound))

	// The transaction survives as an orphan.
	got, err := db.GetTransaction(ctx, trx.IDTransaksi)
	require.NoError(t, err)
	assert.Equal(t, booking.IDBooking, got.IDBooking)
}

func TestDeleteBookingCascadeOptIn(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)
	svc := NewOrderService(db, NewIDGenerator(), nil, nil, config.BookingConfig{CascadeDelete: true}, &logger)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBooking(ctx, booking.IDBooking))

	_, err = db.GetTransaction(ctx, trx.IDTransaksi)
	assert.True(t, errors.Is(err, database.ErrTransactionNotFound))
}

func TestDeleteTransactionDoesNotCascade(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	booking, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTransaction(ctx, trx.IDTransaksi))

	got, err := db.GetBooking(ctx, booking.IDBooking)
	require.NoError(t, err)
	assert.Equal(t, booking.IDBooking, got.IDBooking)
}

func TestLatestTransactionSummary(t *testing.T) {
	svc, _ := newOrderService(t)
	ctx := context.Background()

	_, err := svc.LatestTransactionSummary(ctx)
	assert.True(t, errors.Is(err, database.ErrNoTransactions))

	_, _, err = svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)
	_, trx2, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "budi", PackageName: "Paket Dieng 2D1N", PartySize: 2})
	require.NoError(t, err)

	summary, err := svc.LatestTransactionSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, trx2.IDTransaksi, summary.IDTransaksi)
	assert.Equal(t, models.DefaultVirtualAccount, summary.VirtualAccount)
	assert.Equal(t, "Rp 600.000", summary.TotalTagihan)
}

func TestConcurrentPlaceOrders(t *testing.T) {
	svc, db := newOrderService(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	bookings, err := db.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, n)

	transactions, err := db.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, transactions, n)

	seen := make(map[string]bool, n)
	for _, b := range bookings {
		assert.False(t, seen[b.IDBooking], "duplicate id %s", b.IDBooking)
		seen[b.IDBooking] = true
	}
}

func TestFormatRupiah(t *testing.T) {
	cases := map[int]string{
		0:        "Rp 0",
		950:      "Rp 950",
		300000:   "Rp 300.000",
		1250000:  "Rp 1.250.000",
		12345678: "Rp 12.345.678",
	}
	for amount, want := range cases {
		assert.Equal(t, want, FormatRupiah(amount))
	}
}

func TestPlaceOrderSurvivesWriteFault(t *testing.T) {
	logger := zerolog.New(os.Stdout)
	dir := filepath.Join(t.TempDir(), "data")
	db, err := database.NewDB(dir, &logger)
	require.NoError(t, err)
	svc := NewOrderService(db, NewIDGenerator(), nil, nil, config.BookingConfig{}, &logger)

	// Replace the data directory with a plain file so every write fails.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	booking, trx, err := svc.PlaceOrder(context.Background(), PlaceOrderRequest{
		Username:    "andi",
		PackageName: "Paket Bromo 3D2N",
	})
	require.NoError(t, err, "dropped writes must not fail the order")
	assert.Equal(t, booking.IDBooking, trx.IDBooking)
}

// flakyBookingRepo fails every booking status update with a configured
// error, regardless of whether the booking exists.
type flakyBookingRepo struct {
	*database.DB
	statusErr error
}

func (r *flakyBookingRepo) UpdateBookingStatus(ctx context.Context, id, status string) error {
	return r.statusErr
}

func TestUpdateVerificationStatusReportsUpdateFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	db, err := database.NewDB(t.TempDir(), &logger)
	require.NoError(t, err)

	repo := &flakyBookingRepo{DB: db, statusErr: errors.New("status column locked")}
	svc := NewOrderService(repo, NewIDGenerator(), nil, nil, config.BookingConfig{}, &logger)
	ctx := context.Background()

	_, trx, err := svc.PlaceOrder(ctx, PlaceOrderRequest{Username: "andi", PackageName: "Paket Bromo 3D2N"})
	require.NoError(t, err)

	buf.Reset()
	_, propagation, err := svc.UpdateVerificationStatus(ctx, trx.IDTransaksi, models.VerificationCompleted)
	require.NoError(t, err)
	assert.Equal(t, PropagationTransactionOnly, propagation)
	assert.Contains(t, buf.String(), "Booking status update failed")
	assert.Contains(t, buf.String(), "status column locked")
	assert.NotContains(t, buf.String(), "Linked booking not found")
}
