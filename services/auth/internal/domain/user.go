package domain

import (
	"errors"
	"time"

	"github.com/diagnosis/dalmatia-stays/internal/utils"
	"github.com/google/uuid"
)

const (
	RoleGuest = "guest"
	RoleHost  = "host"
)

var (
	ErrEmailExists         = errors.New("an account with this email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

// ValidationError names the first request field that failed its rules.
type ValidationError struct {
	Field   string
	Message string
	Missing bool
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Message
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

type UserInfo struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Role     string    `json:"role"`
}

func (u *User) ToUserInfo() *UserInfo {
	return &UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	FullName string `json:"fullName" validate:"max=200"`
	Role     string `json:"role" validate:"omitempty,oneof=guest host"`
}

// Normalize lowercases the email, fills a display name when none was given
// and defaults the role to guest.
func (r *SignupRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
	r.FullName = utils.NormalizeString(r.FullName)
	if r.FullName == "" && r.Email != "" {
		r.FullName = utils.DisplayName("", r.Email)
	}
	if r.Role == "" {
		r.Role = RoleGuest
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = utils.NormalizeEmail(r.Email)
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
	User         *UserInfo `json:"user"`
}
