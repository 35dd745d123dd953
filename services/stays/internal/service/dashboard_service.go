package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/repository"
	"github.com/google/uuid"
)

type GuestDashboard struct {
	User     domain.User      `json:"user"`
	Upcoming []domain.Booking `json:"upcoming"`
	Past     []domain.Booking `json:"past"`
}

type HostDashboard struct {
	User           domain.User            `json:"user"`
	Accommodations []domain.Accommodation `json:"accommodations"`
	Upcoming       []domain.Booking       `json:"upcoming"`
	Past           []domain.Booking       `json:"past"`
}

type DashboardService interface {
	Guest(ctx context.Context, identityID string) (*GuestDashboard, error)
	Host(ctx context.Context, identityID string) (*HostDashboard, error)
}

type dashboardService struct {
	accommodations repository.AccommodationRepository
	bookings       repository.BookingRepository
	users          repository.UserRepository
	clock          Clock
}

func NewDashboardService(
	accommodations repository.AccommodationRepository,
	bookings repository.BookingRepository,
	users repository.UserRepository,
	clock Clock,
) DashboardService {
	return &dashboardService{
		accommodations: accommodations,
		bookings:       bookings,
		users:          users,
		clock:          clock,
	}
}

func (s *dashboardService) Guest(ctx context.Context, identityID string) (*GuestDashboard, error) {
	user, err := resolveActor(ctx, s.users, identityID)
	if err != nil {
		return nil, err
	}
	if !user.IsGuest() {
		return nil, &domain.Error{Kind: domain.KindWrongRole, Message: "guest dashboard is for guests"}
	}

	list, err := s.bookings.ListByGuest(ctx, user.ID, repository.OrderByCheckIn)
	if err != nil {
		return nil, fmt.Errorf("list guest bookings: %w", err)
	}

	d := &GuestDashboard{User: user}
	d.Upcoming, d.Past = split(list, s.clock())
	return d, nil
}

func (s *dashboardService) Host(ctx context.Context, identityID string) (*HostDashboard, error) {
	user, err := resolveActor(ctx, s.users, identityID)
	if err != nil {
		return nil, err
	}
	if !user.IsHost() {
		return nil, &domain.Error{Kind: domain.KindWrongRole, Message: "host dashboard is for hosts"}
	}

	listings, err := s.accommodations.ListByHost(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list host accommodations: %w", err)
	}
	if listings == nil {
		listings = []domain.Accommodation{}
	}

	ids := make([]uuid.UUID, 0, len(listings))
	for _, a := range listings {
		ids = append(ids, a.ID)
	}
	list, err := s.bookings.ListByAccommodations(ctx, ids, repository.OrderByCheckIn)
	if err != nil {
		return nil, fmt.Errorf("list host bookings: %w", err)
	}

	d := &HostDashboard{User: user, Accommodations: listings}
	d.Upcoming, d.Past = split(list, s.clock())
	return d, nil
}

// split keeps the incoming order within each half.
func split(list []domain.Booking, now time.Time) (upcoming, past []domain.Booking) {
	upcoming, past = []domain.Booking{}, []domain.Booking{}
	for _, b := range list {
		if b.IsUpcoming(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past
}
