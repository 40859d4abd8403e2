package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionDuration is 7 days; logging in again resets the timer.
	SessionDuration = 7 * 24 * time.Hour
	// sessionKeyPrefix is the Redis key prefix for sessions
	sessionKeyPrefix = "session:"
	// userSessionKeyPrefix is the Redis key prefix for user->session mapping
	userSessionKeyPrefix = "user_session:"
)

// SessionStore issues and validates opaque bearer tokens. The Redis
// implementation is used in production; tests use an in-memory fake.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Validate(ctx context.Context, token string) (uuid.UUID, bool, error)
	Invalidate(ctx context.Context, token string) error
}

// RedisSessions stores sessions in Redis with a TTL, one active session per
// user: creating a session invalidates the previous one.
type RedisSessions struct {
	client *redis.Client
}

func NewRedisSessions(client *redis.Client) *RedisSessions {
	return &RedisSessions{client: client}
}

func (s *RedisSessions) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	// Invalidate any existing session for this user so the timer resets.
	s.invalidateUserSession(ctx, userID)

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(tokenBytes)

	if err := s.client.Set(ctx, sessionKeyPrefix+token, userID.String(), SessionDuration).Err(); err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, userSessionKeyPrefix+userID.String(), token, SessionDuration).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisSessions) Validate(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}

	userIDStr, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false, err
	}
	return userID, true, nil
}

func (s *RedisSessions) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	userIDStr, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == nil && userIDStr != "" {
		s.client.Del(ctx, userSessionKeyPrefix+userIDStr)
	}
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

func (s *RedisSessions) invalidateUserSession(ctx context.Context, userID uuid.UUID) {
	userKey := userSessionKeyPrefix + userID.String()
	token, err := s.client.Get(ctx, userKey).Result()
	if err == nil && token != "" {
		s.client.Del(ctx, sessionKeyPrefix+token)
	}
	s.client.Del(ctx, userKey)
}
