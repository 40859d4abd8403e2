package models

import (
	"time"

	"github.com/google/uuid"
)

// Role controls access to the admin surface. It is set when the account is
// provisioned, never inferred from the username.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// User is the account record. ID is the internal key and never leaves the
// server; PublicID is the opaque identifier exposed to clients.
type User struct {
	ID        uuid.UUID `json:"-"`
	PublicID  uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Don't return the hash in JSON
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user may use admin endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
