package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"travelia/internal/config"
	"travelia/internal/database"
	"travelia/internal/domain"
	"travelia/internal/events"
	"travelia/internal/metrics"
	"travelia/internal/models"

	"github.com/rs/zerolog"
)

var _ domain.Repository = (*database.DB)(nil)

// Propagation reports how far a verification-status update reached.
type Propagation string

const (
	// PropagationFull means both the transaction and its linked booking
	// were updated.
	PropagationFull Propagation = "full"
	// PropagationTransactionOnly means the linked booking was not found,
	// so only the transaction changed. Not an error.
	PropagationTransactionOnly Propagation = "transaction_only"
)

// PlaceOrderRequest carries the normalized order input. Zero values mean
// "not supplied" and trigger the documented defaults.
type PlaceOrderRequest struct {
	Username      string
	PackageName   string
	BookingDate   string
	PartySize     int
	TotalAmount   int
	PaymentMethod string
	UnitPrice     int
}

type OrderService struct {
	repo         domain.Repository
	idgen        *IDGenerator
	eventBus     domain.EventPublisher
	sheetsWorker domain.SyncWorker
	cfg          config.BookingConfig
	logger       *zerolog.Logger
}

func NewOrderService(repo domain.Repository, idgen *IDGenerator, eventBus domain.EventPublisher, sheetsWorker domain.SyncWorker, cfg config.BookingConfig, logger *zerolog.Logger) *OrderService {
	if cfg.UnitPrice <= 0 {
		cfg.UnitPrice = models.DefaultUnitPrice
	}
	if cfg.VirtualAccount == "" {
		cfg.VirtualAccount = models.DefaultVirtualAccount
	}
	return &OrderService{
		repo:         repo,
		idgen:        idgen,
		eventBus:     eventBus,
		sheetsWorker: sheetsWorker,
		cfg:          cfg,
		logger:       logger,
	}
}

// PlaceOrder creates a linked booking/transaction pair. The two appends
// are independent store writes; a crash between them leaves a booking
// without a transaction, which the admin panel surfaces as unpaid.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*models.Booking, *models.Transaction, error) {
	partySize := req.PartySize
	if partySize <= 0 {
		partySize = models.DefaultPartySize
	}

	unitPrice := req.UnitPrice
	if unitPrice <= 0 {
		unitPrice = s.cfg.UnitPrice
	}

	totalAmount := req.TotalAmount
	if totalAmount <= 0 {
		totalAmount = partySize * unitPrice
	}

	bookingDate := req.BookingDate
	if bookingDate == "" {
		bookingDate = time.Now().Format(time.RFC3339)
	}

	bookingID, transactionID := s.idgen.NextPair()

	booking := &models.Booking{
		IDBooking:   bookingID,
		Username:    req.Username,
		PackageName: req.PackageName,
		BookingDate: bookingDate,
		PartySize:   partySize,
		TotalAmount: totalAmount,
		Status:      models.StatusAwaitingPayment,
	}

	transaction := &models.Transaction{
		IDTransaksi:        transactionID,
		IDBooking:          bookingID,
		SenderName:         req.Username,
		PackageName:        req.PackageName,
		PaymentMethod:      req.PaymentMethod,
		AmountTransferred:  totalAmount,
		ProofReference:     nil,
		TransferDate:       time.Now().Format(time.RFC3339),
		VerificationStatus: models.VerificationPending,
	}

	if err := s.repo.AppendBooking(ctx, booking); err != nil {
		return nil, nil, err
	}
	if err := s.repo.AppendTransaction(ctx, transaction); err != nil {
		return nil, nil, err
	}

	metrics.IncOrderPlaced()
	s.publishEvent(events.EventOrderPlaced, booking, transaction)
	s.enqueueSync(ctx, models.SyncTaskUpsert, booking, "")

	s.logger.Info().
		Str("id_booking", bookingID).
		Str("id_transaksi", transactionID).
		Str("nama_paket", req.PackageName).
		Int("harga_total", totalAmount).
		Msg("Order placed")

	return booking, transaction, nil
}

// UpdateVerificationStatus sets the transaction status and propagates it
// to the linked booking. "Selesai" maps to "Diterima"; any other value is
// copied verbatim. A missing booking, or a booking update that fails for
// any other reason, skips propagation without error.
func (s *OrderService) UpdateVerificationStatus(ctx context.Context, transactionID, newStatus string) (*models.Transaction, Propagation, error) {
	trx, err := s.repo.UpdateTransaction(ctx, transactionID, func(t *models.Transaction) {
		t.VerificationStatus = newStatus
	})
	if err != nil {
		return nil, "", err
	}

	bookingStatus := newStatus
	if newStatus == models.VerificationCompleted {
		bookingStatus = models.StatusAccepted
	}

	propagation := PropagationFull
	if err := s.repo.UpdateBookingStatus(ctx, trx.IDBooking, bookingStatus); err != nil {
		propagation = PropagationTransactionOnly
		if errors.Is(err, database.ErrBookingNotFound) {
			s.logger.Warn().
				Str("id_transaksi", transactionID).
				Str("id_booking", trx.IDBooking).
				Msg("Linked booking not found, verification updated transaction only")
		} else {
			s.logger.Error().Err(err).
				Str("id_transaksi", transactionID).
				Str("id_booking", trx.IDBooking).
				Msg("Booking status update failed, verification updated transaction only")
		}
	}

	metrics.IncVerificationUpdate(string(propagation))
	s.publishEvent(events.EventVerificationUpdated, &models.Booking{IDBooking: trx.IDBooking, Status: bookingStatus}, trx)
	if propagation == PropagationFull {
		if booking, err := s.repo.GetBooking(ctx, trx.IDBooking); err == nil {
			s.enqueueSync(ctx, models.SyncTaskUpdateStatus, booking, bookingStatus)
		}
	}

	return trx, propagation, nil
}

// AttachProof records an uploaded proof-of-payment file reference. The
// verification status always resets to pending, even after completion;
// re-uploading proof means re-submission.
func (s *OrderService) AttachProof(ctx context.Context, transactionID, fileReference, senderName string) (*models.Transaction, error) {
	trx, err := s.repo.UpdateTransaction(ctx, transactionID, func(t *models.Transaction) {
		if senderName != "" {
			t.SenderName = senderName
		}
		t.ProofReference = &fileReference
		t.VerificationStatus = models.VerificationPending
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(events.EventProofAttached, nil, trx)

	s.logger.Info().
		Str("id_transaksi", transactionID).
		Str("bukti_transfer", fileReference).
		Msg("Payment proof attached")

	return trx, nil
}

// DeleteBooking removes a booking. With cascade enabled, transactions
// referencing the booking are removed too; otherwise they are left as
// orphans, which the admin panel tolerates.
func (s *OrderService) DeleteBooking(ctx context.Context, bookingID string) error {
	if err := s.repo.DeleteBooking(ctx, bookingID); err != nil {
		return err
	}

	if s.cfg.CascadeDelete {
		removed, err := s.repo.DeleteTransactionsByBooking(ctx, bookingID)
		if err != nil {
			s.logger.Error().Err(err).Str("id_booking", bookingID).Msg("Cascade delete of transactions failed")
		} else if removed > 0 {
			s.logger.Info().Str("id_booking", bookingID).Int("removed", removed).Msg("Cascade deleted linked transactions")
		}
	}

	s.publishEvent(events.EventBookingDeleted, &models.Booking{IDBooking: bookingID}, nil)
	s.enqueueSync(ctx, models.SyncTaskDelete, &models.Booking{IDBooking: bookingID}, "")
	return nil
}

func (s *OrderService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if err := s.repo.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	s.publishEvent(events.EventTransactionDeleted, nil, &models.Transaction{IDTransaksi: transactionID})
	return nil
}

// LatestTransactionSummary returns payment instructions for the most
// recently appended transaction.
func (s *OrderService) LatestTransactionSummary(ctx context.Context) (*models.TransactionSummary, error) {
	trx, err := s.repo.LatestTransaction(ctx)
	if err != nil {
		return nil, err
	}
	return &models.TransactionSummary{
		IDTransaksi:    trx.IDTransaksi,
		VirtualAccount: s.cfg.VirtualAccount,
		TotalTagihan:   FormatRupiah(trx.AmountTransferred),
	}, nil
}

func (s *OrderService) ListBookings(ctx context.Context) ([]models.Booking, error) {
	return s.repo.ListBookings(ctx)
}

func (s *OrderService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *OrderService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *OrderService) publishEvent(eventType string, booking *models.Booking, trx *models.Transaction) {
	if s.eventBus == nil {
		return
	}

	payload := events.OrderEventPayload{}
	if booking != nil {
		payload.BookingID = booking.IDBooking
		payload.Username = booking.Username
		payload.PackageName = booking.PackageName
		payload.PartySize = booking.PartySize
		payload.TotalAmount = booking.TotalAmount
		payload.Status = booking.Status
	}
	if trx != nil {
		payload.TransactionID = trx.IDTransaksi
		if payload.BookingID == "" {
			payload.BookingID = trx.IDBooking
		}
		if payload.PackageName == "" {
			payload.PackageName = trx.PackageName
		}
		payload.VerificationStatus = trx.VerificationStatus
		if trx.ProofReference != nil {
			payload.ProofReference = *trx.ProofReference
		}
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func (s *OrderService) enqueueSync(ctx context.Context, taskType string, booking *models.Booking, status string) {
	if s.sheetsWorker == nil {
		return
	}
	if err := s.sheetsWorker.EnqueueTask(ctx, taskType, booking.IDBooking, booking, status); err != nil {
		s.logger.Error().Err(err).Str("id_booking", booking.IDBooking).Msg("Failed to enqueue sync task")
	}
}

// FormatRupiah renders an amount the way the payment screen shows it,
// with dot thousand separators: 300000 -> "Rp 300.000".
func FormatRupiah(amount int) string {
	digits := strconv.Itoa(amount)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "Rp " + b.String()
	if negative {
		out = "Rp -" + b.String()
	}
	return out
}
