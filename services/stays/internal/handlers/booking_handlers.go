package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/google/uuid"
)

type createBookingReq struct {
	AccommodationID string `json:"accommodationId"`
	CheckIn         string `json:"checkIn"`
	CheckOut        string `json:"checkOut"`
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingReq
	if !decode(w, r, &body) {
		return
	}

	b, err := h.bookings.Create(r.Context(), identityID(r), body.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, map[string]any{"booking": b})
}

func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookings.ListForGuest(r.Context(), identityID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"bookings": list})
}

// toDomain leaves absent fields nil so the domain reports them as missing.
// The first unparsable value is recorded in Malformed and reported after the
// role check.
func (b createBookingReq) toDomain() domain.BookingRequest {
	var req domain.BookingRequest

	if s := strings.TrimSpace(b.AccommodationID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			req.Malformed = "accommodationId"
			return req
		}
		req.AccommodationID = &id
	}
	if s := strings.TrimSpace(b.CheckIn); s != "" {
		t, err := parseDate(s)
		if err != nil {
			req.Malformed = "checkIn"
			return req
		}
		req.CheckIn = &t
	}
	if s := strings.TrimSpace(b.CheckOut); s != "" {
		t, err := parseDate(s)
		if err != nil {
			req.Malformed = "checkOut"
			return req
		}
		req.CheckOut = &t
	}
	return req
}

// parseDate accepts RFC 3339 instants and bare dates, which mean UTC midnight.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}
