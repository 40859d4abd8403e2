package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TheBeanyx/E-ceruza/internal/apperr"
	"github.com/TheBeanyx/E-ceruza/internal/models"
	"github.com/TheBeanyx/E-ceruza/internal/store"
	"github.com/TheBeanyx/E-ceruza/pkg/utils"
)

// CredentialService owns registration and login verification.
type CredentialService struct {
	users store.UserStore
}

func NewCredentialService(users store.UserStore) *CredentialService {
	return &CredentialService{users: users}
}

// decoyHash is what Verify compares against when no account matches the
// login key, so unknown identities cost the same as wrong passwords.
var (
	decoyOnce sync.Once
	decoyHash string
)

func decoy() string {
	decoyOnce.Do(func() {
		decoyHash, _ = utils.HashPassword(uuid.NewString())
	})
	return decoyHash
}

// Register creates an account with a username derived from the display name:
// diacritics stripped, surname-first stem, random two-digit suffix. The
// suffix is retried against the store's unique constraint, so two concurrent
// registrations of the same name can never end up with the same username.
func (s *CredentialService) Register(ctx context.Context, fullName, email, password string) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = utils.NormalizeUsername(email)

	if fullName == "" || email == "" || password == "" {
		return nil, apperr.Validation("Name, email and password are required")
	}
	if !strings.Contains(email, "@") {
		return nil, apperr.Validation("Invalid email address")
	}
	if len(password) < 8 {
		return nil, apperr.Validation("Password must be at least 8 characters")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperr.Storage("Failed to hash password", err)
	}

	base := utils.BaseHandle(utils.NormalizeName(fullName))

	for attempt := 0; attempt < utils.MaxGenerateAttempts; attempt++ {
		u := &models.User{
			ID:           uuid.New(),
			PublicID:     uuid.New(),
			CreatedAt:    time.Now().UTC(),
			FullName:     fullName,
			Email:        email,
			Username:     utils.CandidateUsername(base),
			PasswordHash: hash,
			Role:         models.RoleStudent,
		}

		err := s.users.CreateUser(ctx, u)
		switch {
		case err == nil:
			return u, nil
		case store.IsDuplicate(err, "email"):
			return nil, apperr.Conflict("This email address is already registered")
		case store.IsDuplicate(err, "username"):
			continue // suffix collision, draw again
		default:
			return nil, apperr.Storage("Failed to create user", err)
		}
	}

	return nil, apperr.Exhausted("Could not generate a unique username, please try again")
}

// Verify checks a login key (username first, then email) and password.
// Every failure path runs exactly one hash comparison and returns the same
// error, so the response gives away nothing about which part was wrong.
func (s *CredentialService) Verify(ctx context.Context, login, password string) (*models.User, error) {
	login = utils.NormalizeUsername(login)
	if login == "" || password == "" {
		return nil, apperr.Validation("Username and password are required")
	}

	u, err := s.users.UserByUsername(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		u, err = s.users.UserByEmail(ctx, login)
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.VerifyPassword(password, decoy())
		return nil, apperr.Credential("Invalid username or password")
	}
	if err != nil {
		return nil, apperr.Storage("Failed to look up user", err)
	}

	ok, err := utils.VerifyPassword(password, u.PasswordHash)
	if err != nil || !ok {
		return nil, apperr.Credential("Invalid username or password")
	}
	return u, nil
}
