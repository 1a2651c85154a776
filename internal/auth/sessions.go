// Package auth supplies the boundary-layer authorization gate: admin
// credential checks and redis-backed sessions. The core never imports this;
// it only requires that mutating and listing operations run behind it.
package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"driver-portal/internal/common/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// Credentials holds the single admin login this deployment uses.
type Credentials struct {
	User string
	Pass string
}

// Check does a constant-time comparison of both parts.
func (c Credentials) Check(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.User), []byte(user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(c.Pass), []byte(pass)) == 1
	return userOK && passOK
}

// SessionStore keeps opaque session tokens in redis with a TTL, replacing
// the cookie-session middleware the original deployment used.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewSessionStore(client *redis.Client, ttl time.Duration, log logger.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "sessions"}),
	}
}

// Create registers a new session for user and returns its opaque token.
func (s *SessionStore) Create(ctx context.Context, user string) (string, error) {
	token := uuid.NewString()
	if err := s.client.Set(ctx, sessionKeyPrefix+token, user, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session created", map[string]interface{}{"user": user})
	return token, nil
}

// Validate resolves a token to its user. A missing or expired token returns
// false, never an error.
func (s *SessionStore) Validate(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	user, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		s.logger.Warn("session lookup failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return user, true
}

// Destroy invalidates a session token.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}
