package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// openRedis connects to the Redis named by PSMAP_TEST_REDIS_ADDR, or
// skips the test when the variable is unset.
func openRedis(t *testing.T) *Redis {
	t.Helper()
	addr := os.Getenv("PSMAP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set PSMAP_TEST_REDIS_ADDR to run redis cache tests")
	}

	r, err := NewRedis(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

// TestRedisStore tests the Store contract against a live Redis.
func TestRedisStore(t *testing.T) {
	t.Parallel()

	t.Run("miss returns nil entry and nil error", func(t *testing.T) {
		t.Parallel()
		r := openRedis(t)
		entry, err := r.Get(context.Background(), "never-set")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entry != nil {
			t.Errorf("expected nil entry, got %+v", entry)
		}
	})

	t.Run("set then get round-trips the entry", func(t *testing.T) {
		t.Parallel()
		r := openRedis(t)
		want := sampleEntry("redis-roundtrip")
		if err := r.Set(context.Background(), want, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = r.Delete(context.Background(), want.Category) }()

		got, err := r.Get(context.Background(), want.Category)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil {
			t.Fatal("expected an entry")
		}
		if got.Source != want.Source || string(got.Payload) != string(want.Payload) {
			t.Errorf("entry does not match: %+v", got)
		}
		if !got.FetchedAt.Equal(want.FetchedAt) {
			t.Errorf("expected fetched_at %v, got %v", want.FetchedAt, got.FetchedAt)
		}
	})

	t.Run("delete removes the entry", func(t *testing.T) {
		t.Parallel()
		r := openRedis(t)
		entry := sampleEntry("redis-delete")
		if err := r.Set(context.Background(), entry, time.Minute); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := r.Delete(context.Background(), entry.Category); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := r.Get(context.Background(), entry.Category)
		if err != nil || got != nil {
			t.Errorf("expected a miss after delete, got entry=%v err=%v", got, err)
		}
	})
}
