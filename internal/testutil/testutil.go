// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/mediconnect/mediconnect/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// RedisClient connects to REDIS_URL, flushes the database and closes the
// client on cleanup. It skips when REDIS_URL is unset.
func RedisClient(t testing.TB) *redis.Client {
	t.Helper()
	redisURL := RequireEnv(t, "REDIS_URL")

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("parse REDIS_URL: %v", err)
	}
	client := redis.NewClient(opt)
	t.Cleanup(func() { _ = client.Close() })

	if err := FlushRedis(context.Background(), client); err != nil {
		t.Fatalf("flush redis: %v", err)
	}
	return client
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueEmail returns an address that no other call in this process returns.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.test", prefix, seq.Add(1))
}

// NewTestHospital returns a hospital with sensible defaults and no coordinates.
func NewTestHospital(name string) *model.Hospital {
	return &model.Hospital{
		Name:    name,
		Address: "1 Main St",
	}
}

// NewTestDoctor returns a doctor assigned to hospitalID.
func NewTestDoctor(name, specialization string, hospitalID int64) *model.Doctor {
	return &model.Doctor{
		Name:           name,
		Specialization: specialization,
		Experience:     5,
		HospitalID:     &hospitalID,
		Contact:        "555-0100",
		Email:          UniqueEmail("doctor"),
	}
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
