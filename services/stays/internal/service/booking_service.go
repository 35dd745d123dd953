package service

import (
	"context"
	"fmt"

	"github.com/diagnosis/dalmatia-stays/internal/utils"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/repository"
	"github.com/google/uuid"
)

type BookingService interface {
	Create(ctx context.Context, identityID string, req domain.BookingRequest) (*domain.Booking, error)
	ListForGuest(ctx context.Context, identityID string) ([]domain.Booking, error)
}

type bookingService struct {
	bookings       repository.BookingRepository
	accommodations repository.AccommodationRepository
	users          repository.UserRepository
	events         events.Publisher
	clock          Clock
}

func NewBookingService(
	bookings repository.BookingRepository,
	accommodations repository.AccommodationRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	clock Clock,
) BookingService {
	return &bookingService{
		bookings:       bookings,
		accommodations: accommodations,
		users:          users,
		events:         publisher,
		clock:          clock,
	}
}

// Create checks role, then the request itself, and only then looks the
// accommodation up. Overlapping stays are accepted.
func (s *bookingService) Create(ctx context.Context, identityID string, req domain.BookingRequest) (*domain.Booking, error) {
	guest, err := resolveActor(ctx, s.users, identityID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeBookingCreation(guest); err != nil {
		return nil, err
	}

	now := s.clock()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	acc, err := s.accommodations.GetByID(ctx, *req.AccommodationID)
	if err != nil {
		return nil, fmt.Errorf("get accommodation: %w", err)
	}

	priced, err := domain.PriceAndValidateBooking(acc, guest.ID, req, now)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.Create(ctx, priced)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	booking.Accommodation = acc

	logger.InfoContext(ctx, "Booking created",
		"booking_id", booking.ID,
		"accommodation_id", acc.ID,
		"nights", booking.Nights,
		"total_price", booking.TotalPrice.String(),
	)

	event := events.BookingCreatedEvent{
		BookingID:         booking.ID.String(),
		AccommodationID:   acc.ID.String(),
		AccommodationName: acc.Name,
		Location:          acc.Location,
		GuestEmail:        guest.Email,
		GuestName:         utils.DisplayName(guest.FullName, guest.Email),
		CheckIn:           booking.CheckIn,
		CheckOut:          booking.CheckOut,
		Nights:            booking.Nights,
		TotalPrice:        booking.TotalPrice.String(),
		Currency:          domain.Currency,
		CreatedAt:         booking.CreatedAt,
	}
	if acc.Host != nil {
		event.HostEmail = acc.Host.Email
		event.HostName = utils.DisplayName(acc.Host.FullName, acc.Host.Email)
	}
	if err := s.events.Publish(ctx, events.BookingCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish booking created event", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

// ListForGuest returns the caller's own bookings, newest first. Hosts simply
// get an empty list.
func (s *bookingService) ListForGuest(ctx context.Context, identityID string) ([]domain.Booking, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	out, err := s.bookings.ListByGuest(ctx, id, repository.OrderByCreated)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if out == nil {
		out = []domain.Booking{}
	}
	return out, nil
}
