package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediconnect/mediconnect/internal/model"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when a session is missing or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps login sessions keyed by the digest of their token.
type SessionStore interface {
	SaveSession(ctx context.Context, key string, session *model.Session) error
	GetSession(ctx context.Context, key string) (*model.Session, error)
	DeleteSession(ctx context.Context, key string) error
}

// SaveSession stores a session until its ExpiresAt.
func (c *Cache) SaveSession(ctx context.Context, key string, session *model.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("failed to cache session: already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// GetSession loads a session. Missing keys return ErrSessionNotFound.
func (c *Cache) GetSession(ctx context.Context, key string) (*model.Session, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if session.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a session. Missing keys are not an error.
func (c *Cache) DeleteSession(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// MemorySessionStore is an in-process SessionStore used when Redis is not
// configured. Sessions do not survive a restart and are not shared between
// instances.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-process store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
}

// SaveSession stores a copy of session.
func (m *MemorySessionStore) SaveSession(_ context.Context, key string, session *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	m.sessions[key] = *session
	return nil
}

// GetSession returns the session or ErrSessionNotFound.
func (m *MemorySessionStore) GetSession(_ context.Context, key string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !m.now().Before(session.ExpiresAt) {
		delete(m.sessions, key)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// DeleteSession removes a session.
func (m *MemorySessionStore) DeleteSession(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, key)
	return nil
}

// Len returns the number of stored sessions, including expired ones not yet swept.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// sweepLocked drops expired sessions. Callers hold m.mu.
func (m *MemorySessionStore) sweepLocked() {
	now := m.now()
	for key, session := range m.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(m.sessions, key)
		}
	}
}
