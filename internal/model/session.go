package model

import "time"

// Session binds an opaque token to an authenticated identity.
type Session struct {
	ID        string      `json:"id"`
	User      UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// IsExpired returns true if the session lifetime has elapsed.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// AuthContext contains the identity resolved for the current request.
type AuthContext struct {
	SessionID string
	User      UserSummary
}
