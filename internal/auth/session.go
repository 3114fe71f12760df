package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Session token format: ses_{ulid}_{secret}
// Example: ses_01HZX3K9Q8W7V6T5R4P3N2M1AB_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b
const (
	SessionTokenPrefix = "ses_"
	sessionSecretLen   = 32 // hex encoded 16 bytes
)

var (
	// ErrInvalidSessionToken indicates the token format is invalid.
	ErrInvalidSessionToken = errors.New("invalid session token format")

	sessionTokenRegex = regexp.MustCompile(`^ses_([0-9A-HJKMNP-TV-Z]{26})_([a-f0-9]{32})$`)
)

// SessionToken is a freshly issued session credential.
type SessionToken struct {
	Plaintext string // Full token (handed to the client)
	ID        string // ULID, safe to log
	Key       string // Storage key derived from the plaintext
}

// NewSessionToken issues a new random session token.
func NewSessionToken() (*SessionToken, error) {
	id, err := ulid.New(ulid.Now(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	secretBytes := make([]byte, sessionSecretLen/2)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}

	plaintext := SessionTokenPrefix + id.String() + "_" + hex.EncodeToString(secretBytes)
	return &SessionToken{
		Plaintext: plaintext,
		ID:        id.String(),
		Key:       SessionKey(plaintext),
	}, nil
}

// ParseSessionToken validates the token format and returns its ULID part.
func ParseSessionToken(token string) (string, error) {
	token = strings.TrimSpace(token)
	matches := sessionTokenRegex.FindStringSubmatch(token)
	if matches == nil {
		return "", ErrInvalidSessionToken
	}
	return matches[1], nil
}

// SessionKey derives the storage key for a token so the plaintext never
// reaches the session store.
func SessionKey(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
