package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
)

const userColumns = `id, public_id, created_at, full_name, email, username, password_hash, role`

// CreateUser inserts a new user row. A unique violation on username or email
// surfaces as a DuplicateKeyError.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, public_id, created_at, full_name, email, username, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.PublicID, u.CreatedAt, u.FullName, u.Email, u.Username, u.PasswordHash, u.Role)
	return duplicateKey(err)
}

func (s *Store) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.PublicID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
}

func (s *Store) UserByPublicID(ctx context.Context, publicID uuid.UUID) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE public_id = $1
	`, publicID))
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)
	`, username))
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)
	`, email))
}

// UsersByIDs loads a batch of users keyed by internal id. Missing ids are
// simply absent from the result.
func (s *Store) UsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.User, error) {
	users := make(map[uuid.UUID]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	idStrs := make([]string, 0, len(ids))
	for _, id := range ids {
		idStrs = append(idStrs, id.String())
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ANY($1)
	`, pq.Array(idStrs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.PublicID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		users[u.ID] = &u
	}
	return users, rows.Err()
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.PublicID, &u.CreatedAt, &u.FullName, &u.Email, &u.Username, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}
