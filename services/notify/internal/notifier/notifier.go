package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/diagnosis/dalmatia-stays/services/notify/internal/mailer"
)

// Notifier turns domain events into e-mail. Delivery failures are logged and
// dropped; nothing is retried.
type Notifier struct {
	mailer mailer.Sender
}

func New(m mailer.Sender) *Notifier {
	return &Notifier{mailer: m}
}

// Subscribe joins the queue group so only one notify replica handles each event.
func (n *Notifier) Subscribe(sub events.Subscriber, queue string) error {
	if err := sub.QueueSubscribe(events.BookingCreated, queue, n.OnBookingCreated); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.BookingCreated, err)
	}
	if err := sub.QueueSubscribe(events.UserSignedUp, queue, n.OnUserSignedUp); err != nil {
		return fmt.Errorf("subscribe %s: %w", events.UserSignedUp, err)
	}
	return nil
}

func (n *Notifier) OnBookingCreated(msg *events.Message) {
	ctx := msg.Context()
	var evt events.BookingCreatedEvent
	if err := msg.Decode(&evt); err != nil {
		logger.ErrorContext(ctx, "Dropping malformed event", "error", err, "id", msg.ID)
		return
	}
	if err := n.BookingCreated(ctx, evt); err != nil {
		logger.ErrorContext(ctx, "Booking e-mail failed", "error", err, "booking_id", evt.BookingID)
	}
}

func (n *Notifier) OnUserSignedUp(msg *events.Message) {
	ctx := msg.Context()
	var evt events.UserSignedUpEvent
	if err := msg.Decode(&evt); err != nil {
		logger.ErrorContext(ctx, "Dropping malformed event", "error", err, "id", msg.ID)
		return
	}
	if err := n.UserSignedUp(ctx, evt); err != nil {
		logger.ErrorContext(ctx, "Welcome e-mail failed", "error", err, "user_id", evt.UserID)
	}
}

// BookingCreated mails the guest and, when known, the host. One failing
// recipient does not stop the other.
func (n *Notifier) BookingCreated(ctx context.Context, evt events.BookingCreatedEvent) error {
	var errs []error

	if evt.GuestEmail != "" {
		errs = append(errs, n.deliver(ctx, guestConfirmation, evt))
	}
	if evt.HostEmail != "" {
		errs = append(errs, n.deliver(ctx, hostNotice, evt))
	}

	logger.InfoContext(ctx, "Booking notifications processed", "booking_id", evt.BookingID)
	return errors.Join(errs...)
}

func (n *Notifier) UserSignedUp(ctx context.Context, evt events.UserSignedUpEvent) error {
	if evt.Email == "" {
		return nil
	}
	msg, err := welcome(evt)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg)
}

func (n *Notifier) deliver(ctx context.Context, build func(events.BookingCreatedEvent) (mailer.Message, error), evt events.BookingCreatedEvent) error {
	msg, err := build(evt)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send to %s: %w", msg.ToEmail, err)
	}
	return nil
}
