package memory

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"

	"github.com/google/uuid"
)

// Sessions is an in-memory session store for tests. Same contract as the
// Redis-backed one: opaque tokens, one active session per user.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]uuid.UUID
	byUser map[uuid.UUID]string
}

func NewSessions() *Sessions {
	return &Sessions{
		tokens: make(map[string]uuid.UUID),
		byUser: make(map[uuid.UUID]string),
	}
}

func (s *Sessions) Create(_ context.Context, userID uuid.UUID) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byUser[userID]; ok {
		delete(s.tokens, old)
	}
	s.tokens[token] = userID
	s.byUser[userID] = token
	return token, nil
}

func (s *Sessions) Validate(_ context.Context, token string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	return userID, ok, nil
}

func (s *Sessions) Invalidate(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID, ok := s.tokens[token]; ok {
		delete(s.byUser, userID)
		delete(s.tokens, token)
	}
	return nil
}
