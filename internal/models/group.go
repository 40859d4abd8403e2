package models

import (
	"time"

	"github.com/google/uuid"
)

// Group is a study group. Membership lives in its own relation; the creator
// is always a member from the moment the group exists.
type Group struct {
	ID        uuid.UUID `json:"-"`
	PublicID  uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   uuid.UUID `json:"-"`
}
