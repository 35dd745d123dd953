package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/diagnosis/dalmatia-stays/internal/http/response"
	"github.com/diagnosis/dalmatia-stays/pkg/content"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	mw "github.com/diagnosis/dalmatia-stays/pkg/middleware"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/service"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	accommodations service.AccommodationService
	bookings       service.BookingService
	dashboards     service.DashboardService
	content        content.Source
}

func New(
	accommodations service.AccommodationService,
	bookings service.BookingService,
	dashboards service.DashboardService,
	site content.Source,
) *Handlers {
	return &Handlers{
		accommodations: accommodations,
		bookings:       bookings,
		dashboards:     dashboards,
		content:        site,
	}
}

// Routes mounts the public and session-gated endpoints.
func (h *Handlers) Routes(jwtSecret string, idempotency mw.IdempotencyStore) chi.Router {
	r := chi.NewRouter()

	r.Get("/vacation-types", h.ListVacationTypes)
	r.Get("/site", h.GetSiteContent)

	r.Route("/accommodations", func(r chi.Router) {
		r.Get("/", h.ListAccommodations)
		r.Get("/{id}", h.GetAccommodation)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(jwtSecret))
			r.Post("/", h.CreateAccommodation)
			r.Put("/{id}", h.UpdateAccommodation)
			r.Delete("/{id}", h.DeleteAccommodation)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireSession(jwtSecret))

		r.Get("/bookings", h.ListBookings)
		r.With(mw.Idempotency(idempotency)).Post("/bookings", h.CreateBooking)

		r.Get("/dashboard/guest", h.GuestDashboard)
		r.Get("/dashboard/host", h.HostDashboard)
	})

	return r
}

func identityID(r *http.Request) string {
	id, _ := mw.IdentityFrom(r.Context())
	return id.ID
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return false
	}
	return true
}

// writeError is the single place where service errors become HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrUnauthenticated) {
		response.Unauthorized(w, "authentication required")
		return
	}

	var derr *domain.Error
	if !errors.As(err, &derr) {
		logger.ErrorContext(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		response.InternalError(w)
		return
	}

	switch derr.Kind {
	case domain.KindMissingField:
		response.WriteFieldError(w, http.StatusBadRequest, derr.Error(), response.CodeMissingField, derr.Field)
	case domain.KindInvalidInput:
		response.WriteFieldError(w, http.StatusBadRequest, derr.Error(), response.CodeInvalidInput, derr.Field)
	case domain.KindInvalidRange:
		response.WriteFieldError(w, http.StatusBadRequest, "check-out must be after check-in", response.CodeInvalidRange, derr.Field)
	case domain.KindPastCheckIn:
		response.WriteFieldError(w, http.StatusBadRequest, "check-in cannot be in the past", response.CodePastDateTime, derr.Field)
	case domain.KindWrongRole:
		response.Forbidden(w, derr.Message)
	case domain.KindNotOwner:
		response.NotFound(w, "accommodation not found or not authorized")
	case domain.KindNotFound:
		response.NotFound(w, derr.Message)
	default:
		logger.ErrorContext(r.Context(), "unmapped domain error", "error", err)
		response.InternalError(w)
	}
}
