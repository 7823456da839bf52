package service

import (
	"encoding/json"
	"fmt"

	"travelia/internal/events"

	"github.com/rs/zerolog"
)

// Notifier forwards order events to the manager Telegram chats.
type Notifier struct {
	tg     *TelegramService
	chats  []int64
	logger *zerolog.Logger
}

func NewNotifier(tg *TelegramService, chats []int64, logger *zerolog.Logger) *Notifier {
	return &Notifier{tg: tg, chats: chats, logger: logger}
}

// Subscribe registers handlers for the order lifecycle events.
func (n *Notifier) Subscribe(bus *events.EventBus) {
	bus.Subscribe(events.EventOrderPlaced, n.handle(events.EventOrderPlaced))
	bus.Subscribe(events.EventProofAttached, n.handle(events.EventProofAttached))
	bus.Subscribe(events.EventVerificationUpdated, n.handle(events.EventVerificationUpdated))
	bus.Subscribe(events.EventBookingDeleted, n.handle(events.EventBookingDeleted))
}

func (n *Notifier) handle(eventType string) events.EventHandler {
	return func(event *events.Event) error {
		var payload events.OrderEventPayload
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			n.logger.Error().Err(err).Str("event", eventType).Msg("Failed to decode event payload")
			return err
		}

		text := n.format(eventType, payload)
		if text == "" {
			return nil
		}

		for _, chatID := range n.chats {
			if _, err := n.tg.SendMarkdown(chatID, text); err != nil {
				n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send notification")
			}
		}
		return nil
	}
}

func (n *Notifier) format(eventType string, p events.OrderEventPayload) string {
	switch eventType {
	case events.EventOrderPlaced:
		return fmt.Sprintf(
			"🧾 *Pesanan baru*\nBooking: `%s`\nPaket: %s\nUsername: %s\nJumlah orang: %d\nTotal: %s",
			p.BookingID, p.PackageName, p.Username, p.PartySize, FormatRupiah(p.TotalAmount),
		)
	case events.EventProofAttached:
		return fmt.Sprintf(
			"📎 *Bukti transfer diunggah*\nTransaksi: `%s`\nBooking: `%s`\nFile: %s",
			p.TransactionID, p.BookingID, p.ProofReference,
		)
	case events.EventVerificationUpdated:
		return fmt.Sprintf(
			"✅ *Status verifikasi diperbarui*\nTransaksi: `%s`\nBooking: `%s`\nStatus: %s",
			p.TransactionID, p.BookingID, p.VerificationStatus,
		)
	case events.EventBookingDeleted:
		return fmt.Sprintf("🗑 *Booking dihapus*\nBooking: `%s`", p.BookingID)
	}
	return ""
}
