package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diagnosis/dalmatia-stays/services/stays/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/stays/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrUnauthenticated means the caller carries no usable identity.
var ErrUnauthenticated = errors.New("not authenticated")

type Clock func() time.Time

// resolveActor turns the identity asserted by the session into a directory
// user. A signed-in user without a profile is treated as having no role.
func resolveActor(ctx context.Context, users repository.UserRepository, identityID string) (domain.User, error) {
	id, err := uuid.Parse(identityID)
	if err != nil {
		return domain.User{}, ErrUnauthenticated
	}
	u, err := users.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return domain.User{}, &domain.Error{Kind: domain.KindWrongRole, Message: "user profile not found"}
	}
	return *u, nil
}

// validationError maps the first failed rule onto the domain taxonomy:
// an absent or zero required value is a missing field, anything else is
// invalid input.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return &domain.Error{Kind: domain.KindMissingField, Field: fe.Field(), Message: "is required"}
	}
	msg := "is invalid"
	switch fe.Tag() {
	case "oneof":
		msg = "must be one of: " + fe.Param()
	case "gte":
		msg = "must not be negative"
	case "lte":
		msg = "must be at most " + fe.Param()
	case "max":
		msg = "is too long"
	case "url":
		msg = "must be a URL"
	}
	return &domain.Error{Kind: domain.KindInvalidInput, Field: fe.Field(), Message: msg}
}
