package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/diagnosis/dalmatia-stays/internal/validation"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AccommodationService interface {
	List(ctx context.Context, vt *domain.VacationType) ([]domain.Accommodation, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error)
	Create(ctx context.Context, identityID string, in domain.AccommodationInput) (*domain.Accommodation, error)
	Update(ctx context.Context, identityID string, id uuid.UUID, in domain.AccommodationInput) (*domain.Accommodation, error)
	Delete(ctx context.Context, identityID string, id uuid.UUID) error
}

type accommodationService struct {
	accommodations repository.AccommodationRepository
	users          repository.UserRepository
	events         events.Publisher
	clock          Clock
	validate       *validator.Validate
}

func NewAccommodationService(
	accommodations repository.AccommodationRepository,
	users repository.UserRepository,
	publisher events.Publisher,
	clock Clock,
) AccommodationService {
	return &accommodationService{
		accommodations: accommodations,
		users:          users,
		events:         publisher,
		clock:          clock,
		validate:       validation.New(),
	}
}

// List keeps the store's newest-first order.
func (s *accommodationService) List(ctx context.Context, vt *domain.VacationType) ([]domain.Accommodation, error) {
	all, err := s.accommodations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accommodations: %w", err)
	}
	out := slices.Collect(domain.FilterByVacationType(slices.Values(all), vt))
	if out == nil {
		out = []domain.Accommodation{}
	}
	return out, nil
}

func (s *accommodationService) Get(ctx context.Context, id uuid.UUID) (*domain.Accommodation, error) {
	a, err := s.accommodations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get accommodation: %w", err)
	}
	if a == nil {
		return nil, &domain.Error{Kind: domain.KindNotFound, Message: "accommodation not found"}
	}
	return a, nil
}

func (s *accommodationService) Create(ctx context.Context, identityID string, in domain.AccommodationInput) (*domain.Accommodation, error) {
	actor, err := resolveActor(ctx, s.users, identityID)
	if err != nil {
		return nil, err
	}
	if err := domain.AuthorizeAccommodationMutation(actor, nil, domain.ActionCreate); err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}

	a := &domain.Accommodation{HostID: actor.ID}
	in.Apply(a)

	created, err := s.accommodations.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create accommodation: %w", err)
	}

	logger.InfoContext(ctx, "Accommodation created", "accommodation_id", created.ID, "vacation_type", created.VacationType)
	s.publish(ctx, events.AccommodationCreated, created)
	return created, nil
}

// Update and Delete load the listing unfiltered so the ownership decision is
// made by the policy; the write itself is still scoped to the host.
func (s *accommodationService) Update(ctx context.Context, identityID string, id uuid.UUID, in domain.AccommodationInput) (*domain.Accommodation, error) {
	actor, existing, err := s.authorizeExisting(ctx, identityID, id, domain.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := s.check(&in); err != nil {
		return nil, err
	}

	in.Apply(existing)
	updated, err := s.accommodations.Update(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update accommodation: %w", err)
	}
	if updated == nil {
		// Deleted between the read and the write.
		return nil, domain.ErrNotOwner
	}

	logger.InfoContext(ctx, "Accommodation updated", "accommodation_id", updated.ID, "host_id", actor.ID)
	s.publish(ctx, events.AccommodationUpdated, updated)
	return updated, nil
}

func (s *accommodationService) Delete(ctx context.Context, identityID string, id uuid.UUID) error {
	actor, existing, err := s.authorizeExisting(ctx, identityID, id, domain.ActionDelete)
	if err != nil {
		return err
	}

	ok, err := s.accommodations.Delete(ctx, id, actor.ID)
	if err != nil {
		return fmt.Errorf("delete accommodation: %w", err)
	}
	if !ok {
		return domain.ErrNotOwner
	}

	logger.InfoContext(ctx, "Accommodation deleted", "accommodation_id", id, "host_id", actor.ID)
	s.publish(ctx, events.AccommodationDeleted, existing)
	return nil
}

func (s *accommodationService) authorizeExisting(ctx context.Context, identityID string, id uuid.UUID, action domain.Action) (domain.User, *domain.Accommodation, error) {
	actor, err := resolveActor(ctx, s.users, identityID)
	if err != nil {
		return domain.User{}, nil, err
	}
	existing, err := s.accommodations.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("get accommodation: %w", err)
	}
	if err := domain.AuthorizeAccommodationMutation(actor, existing, action); err != nil {
		return domain.User{}, nil, err
	}
	return actor, existing, nil
}

func (s *accommodationService) check(in *domain.AccommodationInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	if err := s.validate.Struct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func (s *accommodationService) publish(ctx context.Context, subject string, a *domain.Accommodation) {
	evt := events.AccommodationEvent{
		AccommodationID: a.ID.String(),
		HostID:          a.HostID.String(),
		Name:            a.Name,
		VacationType:    string(a.VacationType),
		At:              s.clock(),
	}
	if err := s.events.Publish(ctx, subject, evt); err != nil {
		logger.ErrorContext(ctx, "Failed to publish accommodation event", "error", err, "subject", subject, "accommodation_id", a.ID)
	}
}
