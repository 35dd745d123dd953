package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest Role = "guest"
	RoleHost  Role = "host"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleHost:
		return Role(s), true
	default:
		return "", false
	}
}

// User is read from the directory; the stays service never writes it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) IsHost() bool  { return u.Role == RoleHost }
func (u *User) IsGuest() bool { return u.Role == RoleGuest }

// Party is the public projection of a user attached to listings and bookings.
type Party struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}
