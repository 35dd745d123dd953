package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

const (
	headerMsgID     = nats.MsgIdHdr
	headerRequestID = "X-Request-ID"
)

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
	RequestID string
}

func (m *Message) Decode(v interface{}) error {
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", m.Subject, err)
	}
	return nil
}

// Context carries the publisher's request id so consumer logs correlate.
func (m *Message) Context() context.Context {
	ctx := context.Background()
	if m.RequestID != "" {
		ctx = context.WithValue(ctx, logger.RequestIDKey, m.RequestID)
	}
	return ctx
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url, name string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	msg, err := newMsg(ctx, subject, data)
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "id", msg.Header.Get(headerMsgID))

	return n.conn.PublishMsg(msg)
}

func newMsg(ctx context.Context, subject string, data interface{}) (*nats.Msg, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set(headerMsgID, uuid.NewString())
	if rid, ok := ctx.Value(logger.RequestIDKey).(string); ok && rid != "" {
		msg.Header.Set(headerRequestID, rid)
	}
	return msg, nil
}

func toMessage(msg *nats.Msg) *Message {
	m := &Message{
		Subject:   msg.Subject,
		Data:      msg.Data,
		Timestamp: time.Now(),
	}
	if msg.Header != nil {
		m.ID = msg.Header.Get(headerMsgID)
		m.RequestID = msg.Header.Get(headerRequestID)
	}
	if m.ID == "" {
		m.ID = fmt.Sprintf("%d", m.Timestamp.UnixNano())
	}
	return m
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(toMessage(msg))
	})
	return err
}

// Close drains subscriptions before closing so in-flight handlers finish.
func (n *NATSEventBus) Close() error {
	return n.conn.Drain()
}

// NopPublisher is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, subject string, _ interface{}) error {
	logger.DebugContext(ctx, "Event dropped, no broker", "subject", subject)
	return nil
}

func (NopPublisher) Close() error { return nil }

const (
	BookingCreated = "booking.created"

	AccommodationCreated = "accommodation.created"
	AccommodationUpdated = "accommodation.updated"
	AccommodationDeleted = "accommodation.deleted"

	UserSignedUp = "user.signed_up"
)

// BookingCreatedEvent carries everything the notifier needs so it never has
// to read the stays database.
type BookingCreatedEvent struct {
	BookingID         string    `json:"booking_id"`
	AccommodationID   string    `json:"accommodation_id"`
	AccommodationName string    `json:"accommodation_name"`
	Location          string    `json:"location"`
	GuestEmail        string    `json:"guest_email"`
	GuestName         string    `json:"guest_name"`
	HostEmail         string    `json:"host_email"`
	HostName          string    `json:"host_name"`
	CheckIn           time.Time `json:"check_in"`
	CheckOut          time.Time `json:"check_out"`
	Nights            int64     `json:"nights"`
	TotalPrice        string    `json:"total_price"`
	Currency          string    `json:"currency"`
	CreatedAt         time.Time `json:"created_at"`
}

type AccommodationEvent struct {
	AccommodationID string    `json:"accommodation_id"`
	HostID          string    `json:"host_id"`
	Name            string    `json:"name,omitempty"`
	VacationType    string    `json:"vacation_type,omitempty"`
	At              time.Time `json:"at"`
}

type UserSignedUpEvent struct {
	UserID   string    `json:"user_id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	At       time.Time `json:"at"`
}
