package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// deadlineLayouts are tried in order. Clients send RFC3339 (with "Z" or an
// explicit offset) or the offsetless forms a datetime-local input produces.
var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// TaskService owns personal and group tasks.
type TaskService struct {
	tasks  store.TaskStore
	users  store.UserStore
	groups store.GroupStore

	// rejectPast refuses deadlines earlier than now; REJECT_PAST_DEADLINES.
	rejectPast bool
	now        func() time.Time
}

func NewTaskService(tasks store.TaskStore, users store.UserStore, groups store.GroupStore, rejectPast bool) *TaskService {
	return &TaskService{
		tasks:      tasks,
		users:      users,
		groups:     groups,
		rejectPast: rejectPast,
		now:        time.Now,
	}
}

// ParseDeadline parses an ISO-8601 deadline. Malformed input is a client
// error, never a crash.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("Invalid deadline format, expected ISO-8601")
}

// CreateTaskInput carries the task creation parameters. GroupID empty means
// a personal task; otherwise it is the group's public id.
type CreateTaskInput struct {
	GroupID      string
	Title        string
	Type         string
	Deadline     string
	ReminderDays int
	Description  string
	Link         string
}

func (s *TaskService) Create(ctx context.Context, ownerID uuid.UUID, in CreateTaskInput) (*models.Task, error) {
	if _, err := s.users.UserByID(ctx, ownerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Storage("Failed to look up user", err)
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("Task title is required")
	}
	if strings.TrimSpace(in.Type) == "" {
		return nil, apperr.Validation("Task type is required")
	}
	if in.ReminderDays < 0 {
		return nil, apperr.Validation("Reminder days must not be negative")
	}

	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	if s.rejectPast && deadline.Before(s.now()) {
		return nil, apperr.Validation("Deadline is in the past")
	}

	scope := models.PersonalScope()
	if strings.TrimSpace(in.GroupID) != "" {
		publicID, err := uuid.Parse(in.GroupID)
		if err != nil {
			return nil, apperr.Validation("Invalid group ID")
		}
		g, err := s.groups.GroupByPublicID(ctx, publicID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Group not found")
		}
		if err != nil {
			return nil, apperr.Storage("Failed to look up group", err)
		}
		scope = models.GroupScope(g.ID)
	}

	t := &models.Task{
		ID:           uuid.New(),
		PublicID:     uuid.New(),
		CreatedAt:    s.now().UTC(),
		OwnerID:      ownerID,
		Scope:        scope,
		Title:        strings.TrimSpace(in.Title),
		Type:         strings.TrimSpace(in.Type),
		Deadline:     deadline,
		ReminderDays: in.ReminderDays,
		Description:  in.Description,
		Link:         in.Link,
	}

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		return nil, apperr.Storage("Failed to create task", err)
	}
	return t, nil
}

// Delete removes a task. The requester must be the owner, a member of the
// task's group, or an admin.
func (s *TaskService) Delete(ctx context.Context, taskPublicID uuid.UUID, requester *models.User) error {
	t, err := s.tasks.TaskByPublicID(ctx, taskPublicID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("Task not found")
	}
	if err != nil {
		return apperr.Storage("Failed to look up task", err)
	}

	allowed := t.OwnerID == requester.ID || requester.IsAdmin()
	if !allowed {
		if gid, ok := t.Scope.GroupID(); ok {
			member, err := s.groups.IsMember(ctx, gid, requester.ID)
			if err != nil {
				return apperr.Storage("Failed to check membership", err)
			}
			allowed = member
		}
	}
	if !allowed {
		return apperr.Forbidden("You cannot delete this task")
	}

	if err := s.tasks.DeleteTask(ctx, t.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Task not found")
		}
		return apperr.Storage("Failed to delete task", err)
	}
	return nil
}

// ListForUser returns the user's personal tasks, closest deadline first.
// Group tasks are never in this list.
func (s *TaskService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.tasks.TasksForOwner(ctx, userID)
	if err != nil {
		return nil, apperr.Storage("Failed to list tasks", err)
	}
	return tasks, nil
}

// ListForGroup returns every task scoped to the group.
func (s *TaskService) ListForGroup(ctx context.Context, groupPublicID uuid.UUID) ([]*models.Task, error) {
	g, err := s.groups.GroupByPublicID(ctx, groupPublicID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("Group not found")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up group", err)
	}

	tasks, err := s.tasks.TasksForGroup(ctx, g.ID)
	if err != nil {
		return nil, apperr.Storage("Failed to list tasks", err)
	}
	return tasks, nil
}
