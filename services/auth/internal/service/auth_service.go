package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/diagnosis/dalmatia-stays/internal/validation"
	"github.com/diagnosis/dalmatia-stays/pkg/auth"
	"github.com/diagnosis/dalmatia-stays/pkg/config"
	"github.com/diagnosis/dalmatia-stays/pkg/events"
	"github.com/diagnosis/dalmatia-stays/pkg/logger"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/domain"
	"github.com/diagnosis/dalmatia-stays/services/auth/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.TokenResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
}

type authService struct {
	users    repository.UserRepository
	events   events.Publisher
	config   config.AuthConfig
	params   *argon2id.Params
	validate *validator.Validate
}

func NewAuthService(users repository.UserRepository, publisher events.Publisher, cfg config.AuthConfig) AuthService {
	return &authService{
		users:    users,
		events:   publisher,
		config:   cfg,
		params:   argon2id.DefaultParams,
		validate: validation.New(),
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.TokenResponse, error) {
	req.Normalize()
	if err := s.check(req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := argon2id.CreateHash(req.Password, s.params)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, req.FullName, req.Role, hash)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, domain.ErrEmailExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.InfoContext(ctx, "User signed up", "user_id", user.ID, "role", user.Role)

	evt := events.UserSignedUpEvent{
		UserID:   user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		At:       user.CreatedAt,
	}
	if err := s.events.Publish(ctx, events.UserSignedUp, evt); err != nil {
		logger.WarnContext(ctx, "Failed to publish signup event", "error", err, "user_id", user.ID)
	}

	refresh, err := auth.NewRefreshToken(user.ID.String(), user.Email, s.config.JWTSecret, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return s.issue(user, refresh)
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.TokenResponse, error) {
	req.Normalize()
	if err := s.check(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	refresh, err := auth.NewRefreshToken(user.ID.String(), user.Email, s.config.JWTSecret, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}
	return s.issue(user, refresh)
}

// Refresh mints a new access token; the refresh token itself is returned
// unchanged until it expires.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, &domain.ValidationError{Field: "refreshToken", Message: "is required", Missing: true}
	}

	claims, err := auth.Parse(refreshToken, s.config.JWTSecret)
	if err != nil || claims.Type != auth.TokenRefresh {
		return nil, domain.ErrInvalidRefreshToken
	}
	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrInvalidRefreshToken
	}
	return s.issue(user, refreshToken)
}

func (s *authService) Me(ctx context.Context, userID string) (*domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *authService) issue(user *domain.User, refresh string) (*domain.TokenResponse, error) {
	access, err := auth.NewAccessToken(user.ID.String(), user.Email, user.Role, s.config.JWTSecret, s.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	return &domain.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.config.AccessTokenTTL / time.Second),
		User:         user.ToUserInfo(),
	}, nil
}

func (s *authService) check(v any) error {
	err := s.validate.Struct(v)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &domain.ValidationError{Field: fe.Field(), Message: "is required", Missing: true}
	case "email":
		return &domain.ValidationError{Field: fe.Field(), Message: "must be a valid email address"}
	case "min":
		return &domain.ValidationError{Field: fe.Field(), Message: "must be at least " + fe.Param() + " characters"}
	case "oneof":
		return &domain.ValidationError{Field: fe.Field(), Message: "must be one of: " + fe.Param()}
	default:
		return &domain.ValidationError{Field: fe.Field(), Message: "is invalid"}
	}
}
