package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

const taskColumns = `id, public_id, created_at, owner_id, group_id, title, type, deadline, reminder_days, description, link`

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	var groupID uuid.NullUUID
	if id, ok := t.Scope.GroupID(); ok {
		groupID = uuid.NullUUID{UUID: id, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, public_id, created_at, owner_id, group_id, title, type, deadline, reminder_days, description, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, t.ID, t.PublicID, t.CreatedAt, t.OwnerID, groupID, t.Title, t.Type, t.Deadline, t.ReminderDays, t.Description, t.Link)
	return err
}

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	var t models.Task
	var groupID uuid.NullUUID
	var desc, link sql.NullString
	err := scan(&t.ID, &t.PublicID, &t.CreatedAt, &t.OwnerID, &groupID, &t.Title, &t.Type, &t.Deadline, &t.ReminderDays, &desc, &link)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		t.Scope = models.GroupScope(groupID.UUID)
	} else {
		t.Scope = models.PersonalScope()
	}
	t.Description = desc.String
	t.Link = link.String
	return &t, nil
}

func (s *Store) TaskByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE public_id = $1
	`, publicID)
	t, err := scanTask(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	return t, err
}

func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// TasksForOwner returns only the personal (group-less) tasks of the owner,
// closest deadline first.
func (s *Store) TasksForOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE owner_id = $1 AND group_id IS NULL
		ORDER BY deadline ASC
	`, ownerID)
}

func (s *Store) TasksForGroup(ctx context.Context, groupID uuid.UUID) ([]*models.Task, error) {
	return s.queryTasks(ctx, `
		SELECT `+taskColumns+` FROM tasks
		WHERE group_id = $1
		ORDER BY deadline ASC
	`, groupID)
}

func (s *Store) queryTasks(ctx context.Context, query string, arg any) ([]*models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
