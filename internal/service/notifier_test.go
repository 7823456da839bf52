package service

import (
	"io"
	"testing"

	"travelia/internal/events"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "travelia_bot"}
}

func TestNotifierSendsOrderPlaced(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewNotifier(NewTelegramService(sender), []int64{111, 222}, &logger)

	bus := events.NewEventBus()
	notifier.Subscribe(bus)

	err := bus.PublishJSON(events.EventOrderPlaced, events.OrderEventPayload{
		BookingID:   "BK1700000000000",
		PackageName: "Paket Bromo 3D2N",
		Username:    "andi",
		PartySize:   2,
		TotalAmount: 600000,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 2, "one message per manager chat")
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(111), msg.ChatID)
	assert.Contains(t, msg.Text, "BK1700000000000")
	assert.Contains(t, msg.Text, "Rp 600.000")
}

func TestNotifierIgnoresUnknownEvent(t *testing.T) {
	logger := zerolog.New(io.Discard)
	sender := &fakeSender{}
	notifier := NewNotifier(NewTelegramService(sender), []int64{111}, &logger)

	handler := notifier.handle(events.EventTransactionDeleted)
	err := handler(&events.Event{Type: events.EventTransactionDeleted, Payload: []byte(`{}`)})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
