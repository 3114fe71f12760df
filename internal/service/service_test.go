package service

import (
	"context"
	"testing"

	"github.com/mediconnect/mediconnect/internal/auth"
	"github.com/mediconnect/mediconnect/internal/repository"
)

// fastHasher keeps argon2 cheap in tests.
func fastHasher() *auth.Argon2Hasher {
	return auth.NewArgon2Hasher(auth.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1})
}

func newTestRepository(t *testing.T) *repository.Repository {
	t.Helper()
	ctx := context.Background()

	repo, err := repository.New(ctx, "sqlite://:memory:", repository.DefaultOptions())
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return repo
}
