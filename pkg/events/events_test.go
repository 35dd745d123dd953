package events

import (
	"context"
	"testing"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageRoundTrip(t *testing.T) {
	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-42")
	in := BookingCreatedEvent{
		BookingID:  "b-1",
		GuestEmail: "ana@example.com",
		CheckIn:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Nights:     3,
		TotalPrice: "300.00",
	}

	raw, err := newMsg(ctx, BookingCreated, in)
	require.NoError(t, err)

	msg := toMessage(raw)
	assert.Equal(t, BookingCreated, msg.Subject)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "req-42", msg.RequestID)
	assert.Equal(t, "req-42", msg.Context().Value(logger.RequestIDKey))

	var out BookingCreatedEvent
	require.NoError(t, msg.Decode(&out))
	assert.Equal(t, in, out)
}

func TestMessageDecode_Error(t *testing.T) {
	msg := &Message{Subject: BookingCreated, Data: []byte("{")}
	var out BookingCreatedEvent
	assert.ErrorContains(t, msg.Decode(&out), BookingCreated)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), AccommodationCreated, AccommodationEvent{}))
	assert.NoError(t, p.Close())
}
