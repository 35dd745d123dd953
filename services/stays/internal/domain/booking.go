package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingConfirmed, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

// CanTransitionTo reports whether next is reachable from s. Cancelled is
// terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingConfirmed && next == BookingCancelled
}

const dayMillis = 86_400_000

type Booking struct {
	ID              uuid.UUID     `json:"id"`
	AccommodationID uuid.UUID     `json:"accommodationId"`
	GuestID         uuid.UUID     `json:"guestId"`
	CheckIn         time.Time     `json:"checkIn"`
	CheckOut        time.Time     `json:"checkOut"`
	Nights          int64         `json:"nights"`
	TotalPrice      Money         `json:"totalPrice"`
	Status          BookingStatus `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`

	Accommodation *Accommodation `json:"accommodation,omitempty"`
	Guest         *Party         `json:"guest,omitempty"`
}

// IsUpcoming splits dashboards: confirmed stays that have not started yet.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.Status == BookingConfirmed && !b.CheckIn.Before(now)
}

// Cancel moves a confirmed booking to cancelled.
func (b *Booking) Cancel() error {
	if !b.Status.CanTransitionTo(BookingCancelled) {
		return invalid("status", "booking is already "+string(b.Status))
	}
	b.Status = BookingCancelled
	return nil
}

// BookingRequest is what a guest submits. Pointers distinguish absent fields.
// Malformed names a field that was present but could not be parsed.
type BookingRequest struct {
	AccommodationID *uuid.UUID
	CheckIn         *time.Time
	CheckOut        *time.Time
	Malformed       string
}

// Validate runs the checks that need no store lookup, in reporting order:
// malformed values, missing fields, range, then past check-in.
func (r BookingRequest) Validate(now time.Time) error {
	if r.Malformed != "" {
		return invalid(r.Malformed, "is malformed")
	}
	switch {
	case r.AccommodationID == nil || *r.AccommodationID == uuid.Nil:
		return missing("accommodationId")
	case r.CheckIn == nil || r.CheckIn.IsZero():
		return missing("checkIn")
	case r.CheckOut == nil || r.CheckOut.IsZero():
		return missing("checkOut")
	}
	if !r.CheckOut.After(*r.CheckIn) {
		return &Error{Kind: KindInvalidRange, Field: "checkOut", Message: "must be after check-in"}
	}
	if r.CheckIn.Before(now) {
		return &Error{Kind: KindPastCheckIn, Field: "checkIn", Message: "cannot be in the past"}
	}
	return nil
}

// Nights counts started 24h periods between the two instants, so any
// positive span shorter than a day is one night.
func Nights(checkIn, checkOut time.Time) int64 {
	ms := checkOut.Sub(checkIn).Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	return (ms + dayMillis - 1) / dayMillis
}

func TotalPrice(perNight Money, nights int64) Money {
	return perNight * Money(nights)
}

// PriceAndValidateBooking turns a request into a confirmed booking priced
// from acc. acc is nil when the store had no such accommodation.
func PriceAndValidateBooking(acc *Accommodation, guestID uuid.UUID, req BookingRequest, now time.Time) (*Booking, error) {
	if err := req.Validate(now); err != nil {
		return nil, err
	}
	if acc == nil || acc.ID != *req.AccommodationID {
		return nil, notFound("accommodation")
	}

	nights := Nights(*req.CheckIn, *req.CheckOut)
	if acc.PricePerNight > 0 && nights > int64(MaxMoney/acc.PricePerNight) {
		return nil, invalid("checkOut", "stay total exceeds "+MaxMoney.String())
	}
	return &Booking{
		ID:              uuid.New(),
		AccommodationID: acc.ID,
		GuestID:         guestID,
		CheckIn:         *req.CheckIn,
		CheckOut:        *req.CheckOut,
		Nights:          nights,
		TotalPrice:      TotalPrice(acc.PricePerNight, nights),
		Status:          BookingConfirmed,
		CreatedAt:       now,
	}, nil
}
