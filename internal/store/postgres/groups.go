package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

const groupColumns = `id, public_id, created_at, name, description, created_by`

// CreateGroup inserts a new group row. Name uniqueness (case-insensitive) is
// enforced by the idx_groups_name_lower index.
func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, public_id, created_at, name, description, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, g.ID, g.PublicID, g.CreatedAt, g.Name, g.Description, g.CreatorID)
	return duplicateKey(err)
}

func (s *Store) scanGroup(row *sql.Row) (*models.Group, error) {
	var g models.Group
	var desc sql.NullString
	err := row.Scan(&g.ID, &g.PublicID, &g.CreatedAt, &g.Name, &desc, &g.CreatorID)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	g.Description = desc.String
	return &g, nil
}

func (s *Store) GroupByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	return s.scanGroup(s.db.QueryRowContext(ctx, `
		SELECT `+groupColumns+` FROM groups WHERE id = $1
	`, id))
}

func (s *Store) GroupByPublicID(ctx context.Context, publicID uuid.UUID) (*models.Group, error) {
	return s.scanGroup(s.db.QueryRowContext(ctx, `
		SELECT `+groupColumns+` FROM groups WHERE public_id = $1
	`, publicID))
}

// AddMember is idempotent: joining a group twice leaves one membership row.
func (s *Store) AddMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, groupID, userID)
	return err
}

// RemoveMember is idempotent: leaving a group the user is not in is a no-op.
func (s *Store) RemoveMember(ctx context.Context, groupID, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM group_members WHERE group_id = $1 AND user_id = $2
	`, groupID, userID)
	return err
}

func (s *Store) IsMember(ctx context.Context, groupID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)
	`, groupID, userID).Scan(&exists)
	return exists, err
}

func (s *Store) GroupsForUser(ctx context.Context, userID uuid.UUID) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.public_id, g.created_at, g.name, g.description, g.created_by
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		var g models.Group
		var desc sql.NullString
		if err := rows.Scan(&g.ID, &g.PublicID, &g.CreatedAt, &g.Name, &desc, &g.CreatorID); err != nil {
			return nil, err
		}
		g.Description = desc.String
		groups = append(groups, &g)
	}
	return groups, rows.Err()
}

func (s *Store) Members(ctx context.Context, groupID uuid.UUID) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.public_id, u.created_at, u.full_name, u.email, u.username, u.password_hash, u.role
		FROM users u
		JOIN group_members gm ON gm.user_id = u.id
		WHERE gm.group_id = $1
		ORDER BY gm.joined_at ASC
	`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.PublicID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		members = append(members, &u)
	}
	return members, rows.Err()
}

// DeleteGroup removes the group row; membership rows and group-scoped tasks
// go with it through ON DELETE CASCADE.
func (s *Store) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
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
