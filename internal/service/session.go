package service

import (
	"context"
	"errors"
	"time"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/cache"
	"github.com/mediconnect/mediconnect/internal/model"
)

// DefaultSessionTTL is used when no TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// ErrSessionInvalid is returned for unknown, expired or malformed tokens.
var ErrSessionInvalid = errors.New("session is invalid or expired")

// SessionService issues and resolves login sessions.
type SessionService struct {
	store cache.SessionStore
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(store cache.SessionStore, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{store: store, ttl: ttl, now: time.Now}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Start opens a session for user and returns the plaintext token. The token
// is only returned here; the store keeps its digest.
func (s *SessionService) Start(ctx context.Context, user model.UserSummary) (string, *model.Session, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", nil, err
	}

	now := s.now().UTC()
	session := &model.Session{
		ID:        token.ID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.SaveSession(ctx, token.Key, session); err != nil {
		return "", nil, storageError("save session", err)
	}
	return token.Plaintext, session, nil
}

// Resolve returns the identity bound to token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*model.AuthContext, error) {
	if _, err := auth.ParseSessionToken(token); err != nil {
		return nil, ErrSessionInvalid
	}

	session, err := s.store.GetSession(ctx, auth.SessionKey(token))
	if err != nil {
		if errors.Is(err, cache.ErrSessionNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, storageError("get session", err)
	}
	if !s.now().Before(session.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	return &model.AuthContext{SessionID: session.ID, User: session.User}, nil
}

// End revokes token. Unknown tokens are ignored.
func (s *SessionService) End(ctx context.Context, token string) error {
	if _, err := auth.ParseSessionToken(token); err != nil {
		return nil
	}
	if err := s.store.DeleteSession(ctx, auth.SessionKey(token)); err != nil {
		return storageError("delete session", err)
	}
	return nil
}
