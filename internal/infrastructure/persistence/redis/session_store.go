// Package redis implements the Redis infrastructure for the FinEdu backend.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/finedu-app/finedu-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// ErrTokenEmpty is returned when an empty token is provided.
var ErrTokenEmpty = errors.New("session_store: token cannot be empty")

// SessionStore implements user.SessionStore on plain Redis keys.
// Each token is stored as "session:<token>" -> userID with a TTL, so
// expiry is handled entirely by Redis and Resolve never sees stale tokens.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save stores the token with the given TTL.
func (s *SessionStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	if token == "" {
		return ErrTokenEmpty
	}
	if ttl <= 0 {
		ttl = TTLSessionData
	}

	return s.cache.SetString(ctx, SessionKey(token), userID, ttl)
}

// Resolve returns the user ID behind a token.
// Returns shared.ErrSessionExpired for unknown or expired tokens.
func (s *SessionStore) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", shared.ErrSessionExpired
	}

	userID, err := s.cache.GetString(ctx, SessionKey(token))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return "", shared.ErrSessionExpired
		}
		return "", err
	}

	return userID, nil
}

// Revoke deletes the token. Revoking an unknown token is not an error.
func (s *SessionStore) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	return s.cache.Delete(ctx, SessionKey(token))
}
