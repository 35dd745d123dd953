package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 5, 20, 9, 30, 0, 0, time.UTC)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func listing(price Money) *Accommodation {
	return &Accommodation{ID: uuid.New(), HostID: uuid.New(), Name: "Stone House", PricePerNight: price, VacationType: VacationRelax}
}

func request(acc *Accommodation, in, out *time.Time) BookingRequest {
	return BookingRequest{AccommodationID: &acc.ID, CheckIn: in, CheckOut: out}
}

func TestPriceAndValidateBooking_ThreeNights(t *testing.T) {
	acc := listing(10000)
	guest := uuid.New()

	b, err := PriceAndValidateBooking(acc, guest, request(acc, ts("2025-06-01T00:00:00Z"), ts("2025-06-04T00:00:00Z")), now)
	require.NoError(t, err)

	assert.Equal(t, int64(3), b.Nights)
	assert.Equal(t, Money(30000), b.TotalPrice)
	assert.Equal(t, "300.00", b.TotalPrice.String())
	assert.Equal(t, BookingConfirmed, b.Status)
	assert.Equal(t, acc.ID, b.AccommodationID)
	assert.Equal(t, guest, b.GuestID)
	assert.Equal(t, now, b.CreatedAt)
	assert.NotEqual(t, uuid.Nil, b.ID)
}

func TestPriceAndValidateBooking_HalfDayIsOneNight(t *testing.T) {
	acc := listing(8550)

	b, err := PriceAndValidateBooking(acc, uuid.New(), request(acc, ts("2025-06-01T00:00:00Z"), ts("2025-06-01T12:00:00Z")), now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), b.Nights)
	assert.Equal(t, acc.PricePerNight, b.TotalPrice)
}

func TestPriceAndValidateBooking_TotalMatchesNights(t *testing.T) {
	acc := listing(12345)
	in := *ts("2025-07-01T15:00:00Z")

	for _, span := range []time.Duration{
		time.Minute,
		23 * time.Hour,
		24 * time.Hour,
		24*time.Hour + time.Millisecond,
		36 * time.Hour,
		7 * 24 * time.Hour,
		30*24*time.Hour + 5*time.Hour,
	} {
		out := in.Add(span)
		b, err := PriceAndValidateBooking(acc, uuid.New(), request(acc, &in, &out), now)
		require.NoError(t, err, span)

		wantNights := int64(span / (24 * time.Hour))
		if span%(24*time.Hour) != 0 {
			wantNights++
		}
		assert.Equal(t, wantNights, b.Nights, span)
		assert.Equal(t, Money(12345*wantNights), b.TotalPrice, span)
	}
}

func TestPriceAndValidateBooking_InvalidRange(t *testing.T) {
	acc := listing(10000)

	cases := map[string]BookingRequest{
		"reversed": request(acc, ts("2025-06-05T00:00:00Z"), ts("2025-06-01T00:00:00Z")),
		"equal":    request(acc, ts("2025-06-05T00:00:00Z"), ts("2025-06-05T00:00:00Z")),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PriceAndValidateBooking(acc, uuid.New(), req, now)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

func TestPriceAndValidateBooking_PastCheckIn(t *testing.T) {
	acc := listing(10000)

	// Earlier the same day still counts as past.
	sameDay := now.Add(-time.Minute)
	out := now.Add(48 * time.Hour)
	_, err := PriceAndValidateBooking(acc, uuid.New(), request(acc, &sameDay, &out), now)
	assert.ErrorIs(t, err, ErrPastCheckIn)

	// Regardless of check-out.
	farOut := now.AddDate(1, 0, 0)
	_, err = PriceAndValidateBooking(acc, uuid.New(), request(acc, ts("2024-01-01T00:00:00Z"), &farOut), now)
	assert.ErrorIs(t, err, ErrPastCheckIn)

	// Exactly now is allowed.
	exact := now
	_, err = PriceAndValidateBooking(acc, uuid.New(), request(acc, &exact, &out), now)
	assert.NoError(t, err)
}

func TestPriceAndValidateBooking_MissingFields(t *testing.T) {
	acc := listing(10000)
	in, out := ts("2025-06-01T00:00:00Z"), ts("2025-06-04T00:00:00Z")

	cases := map[string]struct {
		req   BookingRequest
		field string
	}{
		"accommodation": {BookingRequest{CheckIn: in, CheckOut: out}, "accommodationId"},
		"nil uuid":      {BookingRequest{AccommodationID: &uuid.Nil, CheckIn: in, CheckOut: out}, "accommodationId"},
		"check-in":      {BookingRequest{AccommodationID: &acc.ID, CheckOut: out}, "checkIn"},
		"check-out":     {BookingRequest{AccommodationID: &acc.ID, CheckIn: in}, "checkOut"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PriceAndValidateBooking(acc, uuid.New(), tc.req, now)
			require.ErrorIs(t, err, ErrMissingField)

			var derr *Error
			require.True(t, errors.As(err, &derr))
			assert.Equal(t, tc.field, derr.Field)
		})
	}
}

func TestPriceAndValidateBooking_NotFound(t *testing.T) {
	acc := listing(10000)
	req := request(acc, ts("2025-06-01T00:00:00Z"), ts("2025-06-04T00:00:00Z"))

	_, err := PriceAndValidateBooking(nil, uuid.New(), req, now)
	assert.ErrorIs(t, err, ErrNotFound)

	other := listing(10000)
	_, err = PriceAndValidateBooking(other, uuid.New(), req, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPriceAndValidateBooking_ValidationPrecedesLookup(t *testing.T) {
	acc := listing(10000)
	req := request(acc, ts("2025-06-05T00:00:00Z"), ts("2025-06-01T00:00:00Z"))

	_, err := PriceAndValidateBooking(nil, uuid.New(), req, now)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestPriceAndValidateBooking_TotalBeyondColumn(t *testing.T) {
	acc := listing(MaxMoney / 10)

	b, err := PriceAndValidateBooking(acc, uuid.New(), request(acc, ts("2025-06-01T00:00:00Z"), ts("2025-06-11T00:00:00Z")), now)
	require.NoError(t, err)
	assert.Equal(t, MaxMoney/10*10, b.TotalPrice)

	_, err = PriceAndValidateBooking(acc, uuid.New(), request(acc, ts("2025-06-01T00:00:00Z"), ts("2025-06-12T00:00:00Z")), now)
	require.ErrorIs(t, err, ErrInvalidInput)

	acc = listing(MaxMoney)
	_, err = PriceAndValidateBooking(acc, uuid.New(), request(acc, ts("2025-06-01T00:00:00Z"), ts("2035-06-01T00:00:00Z")), now)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBookingRequest_MalformedComesFirst(t *testing.T) {
	err := BookingRequest{Malformed: "checkOut"}.Validate(now)
	require.ErrorIs(t, err, ErrInvalidInput)

	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "checkOut", derr.Field)
}

func TestParseBookingStatus(t *testing.T) {
	st, ok := ParseBookingStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, BookingCancelled, st)

	_, ok = ParseBookingStatus("pending")
	assert.False(t, ok)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("host")
	assert.True(t, ok)
	assert.Equal(t, RoleHost, r)

	_, ok = ParseRole("admin")
	assert.False(t, ok)
}

func TestNights(t *testing.T) {
	a, b := *ts("2025-06-01T00:00:00Z"), *ts("2025-06-04T00:00:00Z")
	assert.Equal(t, int64(3), Nights(a, b))
	assert.Equal(t, int64(3), Nights(b, a))
	assert.Equal(t, int64(0), Nights(a, a))
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingConfirmed.CanTransitionTo(BookingCancelled))
	assert.False(t, BookingCancelled.CanTransitionTo(BookingConfirmed))
	assert.False(t, BookingCancelled.CanTransitionTo(BookingCancelled))
	assert.False(t, BookingConfirmed.CanTransitionTo(BookingConfirmed))

	b := &Booking{Status: BookingConfirmed}
	require.NoError(t, b.Cancel())
	assert.Equal(t, BookingCancelled, b.Status)
	assert.ErrorIs(t, b.Cancel(), ErrInvalidInput)
}

func TestBooking_IsUpcoming(t *testing.T) {
	future := &Booking{Status: BookingConfirmed, CheckIn: now.Add(time.Hour)}
	past := &Booking{Status: BookingConfirmed, CheckIn: now.Add(-time.Hour)}
	cancelled := &Booking{Status: BookingCancelled, CheckIn: now.Add(time.Hour)}

	assert.True(t, future.IsUpcoming(now))
	assert.False(t, past.IsUpcoming(now))
	assert.False(t, cancelled.IsUpcoming(now))
}
