package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskScope says whether a task belongs to one user or to a study group.
// The zero value is personal scope.
type TaskScope struct {
	groupID uuid.UUID
}

// PersonalScope is the scope of a task owned by a single user.
func PersonalScope() TaskScope {
	return TaskScope{}
}

// GroupScope is the scope of a task shared by a group.
func GroupScope(groupID uuid.UUID) TaskScope {
	return TaskScope{groupID: groupID}
}

// IsGroup reports whether the task is group-scoped.
func (s TaskScope) IsGroup() bool {
	return s.groupID != uuid.Nil
}

// GroupID returns the owning group's internal id and whether one is set.
func (s TaskScope) GroupID() (uuid.UUID, bool) {
	return s.groupID, s.groupID != uuid.Nil
}

// Task is a planner entry: an exam, homework, submission or note with a
// deadline and a reminder lead time in days. Reminder firing is handled by an
// external notifier; the backend only stores the lead time.
type Task struct {
	ID        uuid.UUID `json:"-"`
	PublicID  uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OwnerID      uuid.UUID `json:"-"`
	Scope        TaskScope `json:"-"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Deadline     time.Time `json:"deadline"`
	ReminderDays int       `json:"reminder_days"`
	Description  string    `json:"description,omitempty"`
	Link         string    `json:"online_link,omitempty"`
}
