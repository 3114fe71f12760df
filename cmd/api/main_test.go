package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mediconnect/mediconnect/internal/cache"
	"github.com/mediconnect/mediconnect/internal/config"
)

func TestOpenSessionStore_FallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, health, closeFn, err := openSessionStore(context.Background(), &config.Config{}, logger)
	if err != nil {
		t.Fatalf("openSessionStore() error = %v", err)
	}
	if _, ok := store.(*cache.MemorySessionStore); !ok {
		t.Errorf("store = %T, want *cache.MemorySessionStore", store)
	}
	if health != nil {
		t.Errorf("in-process store should have no health checker, got %T", health)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close error = %v", err)
	}
}

func TestOpenSessionStore_BadRedisURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, _, _, err := openSessionStore(context.Background(), &config.Config{RedisURL: "not-a-url://"}, logger)
	if err == nil {
		t.Fatal("expected error for unparsable REDIS_URL")
	}
}
