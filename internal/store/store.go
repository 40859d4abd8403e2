// Package store defines the persistence contracts the ledgers depend on.
// Users, groups, memberships and tasks live in PostgreSQL; messages and
// feedback live in MongoDB; an in-memory implementation backs the tests.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/models"
)

// ErrNotFound is returned for lookups and deletes that match nothing.
var ErrNotFound = errors.New("store: not found")

// DuplicateKeyError reports which unique key an insert collided on
// ("username", "email", "group name"). Uniqueness is enforced by the store
// at insert time, so concurrent check-then-insert races cannot slip through.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("store: duplicate %s", e.Key)
}

// IsDuplicate reports whether err is a DuplicateKeyError for the given key.
func IsDuplicate(err error, key string) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup) && dup.Key == key
}

// UserStore owns User rows. Username and email lookups expect the stored
// (lowercase) form.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UserByPublicID(ctx context.Context, publicID uuid.UUID) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// GroupStore owns Group rows and the membership relation. AddMember and
// RemoveMember are idempotent; DeleteGroup cascades memberships and
// group-scoped tasks.
type GroupStore interface {
	CreateGroup(ctx context.Context, g *models.Group) error
	GroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GroupByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error
	IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error)
	GroupsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error)
	Members(ctx context.Context, groupID uuid.UUID) ([]*models.User, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
}

// TaskStore owns Task rows.
type TaskStore interface {
	CreateTask(ctx context.Context, t *models.Task) error
	TaskByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	// TasksForOwner returns the user's personal tasks only, deadline ascending.
	TasksForOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)
	TasksForGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Task, error)
}

// MessageStore owns Message rows. CreateMessage assigns the id.
type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	MessageByID(ctx context.Context, id string) (*models.Message, error)
	// MessagesForUser returns every message the user sent or received,
	// including rows the user has hidden; the ledger filters.
	MessagesForUser(ctx context.Context, userID uuid.UUID) ([]*models.Message, error)
	UpdateMessage(ctx context.Context, m *models.Message) error
	DeleteMessage(ctx context.Context, id string) error
}

// FeedbackStore owns anonymous feedback entries.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context) ([]*models.Feedback, error)
	DeleteFeedback(ctx context.Context, id string) error
}
