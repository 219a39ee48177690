package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexus-hrm/hrm-service/internal/domain"
)

const sessionKeyPrefix = "hrm:session:"

// ErrSessionNotFound is returned for missing or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps live operator sessions in Redis, keyed by the token's
// session id. Deleting the record ends the session everywhere: a bearer token
// whose session is gone is rejected, which also stops late responses from a
// logged-out session being acted on.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore builds a store with the given session lifetime.
func NewSessionStore(r *Redis, ttl time.Duration) *SessionStore {
	return &SessionStore{client: r.Client, ttl: ttl}
}

// Put stores the session record under the session id.
func (s *SessionStore) Put(ctx context.Context, sessionID string, user domain.AuthUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, s.ttl).Err()
}

// Get loads the session record, or ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*domain.AuthUser, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var user domain.AuthUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete ends the session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
