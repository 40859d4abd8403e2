// Package postgres implements the relational stores (users, groups,
// memberships, tasks) on PostgreSQL via database/sql and lib/pq.
package postgres

import (
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/TheBeanyx/E-ceruza/internal/store"
)

// Store holds the shared connection pool.
type Store struct {
	db *sql.DB
}

// Open connects, configures the pool, verifies the connection and creates
// the tables if they don't exist.
func Open(postgresURI string) (*Store, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err = s.initTables(); err != nil {
		return nil, err
	}

	log.Println("✅ Connected to PostgreSQL")
	return s, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// initTables creates all necessary tables and indexes if they don't exist.
func (s *Store) initTables() error {
	queries := []string{
		// Users table. Usernames are system-generated; username and email
		// uniqueness is enforced here, not by pre-read checks.
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			public_id UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			full_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			username VARCHAR(80) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'student'
		)`,

		// Study groups
		`CREATE TABLE IF NOT EXISTS groups (
			id UUID PRIMARY KEY,
			public_id UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			name VARCHAR(255) NOT NULL,
			description TEXT,
			created_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Group members (many-to-many relationship)
		`CREATE TABLE IF NOT EXISTS group_members (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			group_id UUID NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(group_id, user_id)
		)`,

		// Tasks. group_id NULL means personal; deleting a group cascades
		// its tasks away.
		`CREATE TABLE IF NOT EXISTS tasks (
			id UUID PRIMARY KEY,
			public_id UUID NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			group_id UUID REFERENCES groups(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL,
			deadline TIMESTAMPTZ NOT NULL,
			reminder_days INTEGER NOT NULL DEFAULT 0,
			description TEXT,
			link TEXT
		)`,

		`CREATE UNIQUE INDEX IF NOT EXISTS idx_groups_name_lower ON groups(LOWER(name))`,
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user_id ON group_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_group_id ON tasks(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_deadline ON tasks(deadline)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}

	log.Println("✅ PostgreSQL tables initialized")
	return nil
}

// duplicateKey translates a pq unique violation into a DuplicateKeyError so
// callers can tell which key collided; other errors pass through.
func duplicateKey(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pqErr.Constraint, "username"):
		return &store.DuplicateKeyError{Key: "username"}
	case strings.Contains(pqErr.Constraint, "email"):
		return &store.DuplicateKeyError{Key: "email"}
	case strings.Contains(pqErr.Constraint, "groups_name") || strings.Contains(pqErr.Constraint, "name_lower"):
		return &store.DuplicateKeyError{Key: "group name"}
	}
	return err
}
