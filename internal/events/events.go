package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventOrderPlaced         = "order_placed"
	EventProofAttached       = "proof_attached"
	EventVerificationUpdated = "verification_updated"
	EventBookingDeleted      = "booking_deleted"
	EventTransactionDeleted  = "transaction_deleted"
)

// OrderEventPayload describes the booking/transaction snapshot for event
// consumers (notifications, sheet mirroring).
type OrderEventPayload struct {
	BookingID          string `json:"booking_id"`
	TransactionID      string `json:"transaction_id,omitempty"`
	Username           string `json:"username,omitempty"`
	PackageName        string `json:"nama_paket,omitempty"`
	PartySize          int    `json:"jumlah_orang,omitempty"`
	TotalAmount        int    `json:"harga_total,omitempty"`
	Status             string `json:"status,omitempty"`
	VerificationStatus string `json:"status_verifikasi,omitempty"`
	ProofReference     string `json:"bukti_transfer,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
