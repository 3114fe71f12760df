package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/mediconnect/mediconnect/internal/model"
)

func TestNewSessionToken(t *testing.T) {
	t.Parallel()

	token, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	if !strings.HasPrefix(token.Plaintext, SessionTokenPrefix) {
		t.Errorf("expected %q prefix, got %s", SessionTokenPrefix, token.Plaintext)
	}

	id, err := ParseSessionToken(token.Plaintext)
	if err != nil {
		t.Fatalf("ParseSessionToken failed: %v", err)
	}
	if id != token.ID {
		t.Errorf("expected parsed id %s, got %s", token.ID, id)
	}

	if token.Key != SessionKey(token.Plaintext) {
		t.Error("expected Key to be derived from plaintext")
	}
	if strings.Contains(token.Key, token.Plaintext) {
		t.Error("storage key must not contain the plaintext token")
	}
}

func TestNewSessionToken_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 50 {
		token, err := NewSessionToken()
		if err != nil {
			t.Fatalf("NewSessionToken failed: %v", err)
		}
		if seen[token.Plaintext] {
			t.Fatalf("duplicate token issued: %s", token.Plaintext)
		}
		seen[token.Plaintext] = true
	}
}

func TestParseSessionToken_Invalid(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"ses_",
		"pk_live_abc123_secretsecretsecretsecret1234",
		"ses_01HZX3K9Q8W7V6T5R4P3N2M1AB_short",
		"ses_01hzx3k9q8w7v6t5r4p3n2m1ab_4f8d2e1b9c7a5f3d2e1b9c7a5f3d2e1b",
	}

	for _, token := range tests {
		if _, err := ParseSessionToken(token); err != ErrInvalidSessionToken {
			t.Errorf("ParseSessionToken(%q) error = %v, want ErrInvalidSessionToken", token, err)
		}
	}
}

func TestSessionKey_Deterministic(t *testing.T) {
	t.Parallel()

	if SessionKey("a") != SessionKey("a") {
		t.Error("Same input should produce same key")
	}
	if SessionKey("a") == SessionKey("b") {
		t.Error("Different input should produce different key")
	}
	if len(SessionKey("anything")) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(SessionKey("anything")))
	}
}

func TestContextWithAuth(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, ok := UserFromContext(ctx); ok {
		t.Fatal("expected no identity in empty context")
	}
	if AuthFromContext(ctx) != nil {
		t.Fatal("expected nil auth context")
	}

	user := model.UserSummary{ID: 1, Name: "Ann", Role: model.RoleAdmin}
	ctx = ContextWithAuth(ctx, &model.AuthContext{SessionID: "sid", User: user})

	got, ok := UserFromContext(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if got != user {
		t.Errorf("expected %+v, got %+v", user, got)
	}
}
