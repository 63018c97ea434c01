// Package testutil holds shared helpers for tests: a manual clock and Redis fixtures.
package testutil

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Cleanup(func())
	Skipf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	Logf(format string, args ...interface{})
}

// TestTime returns a fixed, deterministic time for tests.
func TestTime() time.Time {
	return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

// redisRequired turns a missing Redis into a failure instead of a skip (CI).
func redisRequired() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }

// redisCandidates lists the addresses probed in order. REDIS_ADDR wins when set.
func redisCandidates() []string {
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		return []string{addr}
	}
	return []string{"localhost:56379", "redis:6379", "localhost:6379"}
}

func ping(ctx context.Context, addr string) error {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	return c.Ping(ctx).Err()
}

// SetupTestRedis returns a client for the first reachable test Redis and closes it on cleanup.
// The test is skipped when none answers, unless TEST_REQUIRE_REDIS is set.
//
// The session sync bus only uses pub/sub, which is not scoped to a logical DB, so tests
// isolate themselves with TestChannel rather than by DB index.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	var lastErr error
	for _, addr := range redisCandidates() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := ping(ctx, addr)
		cancel()
		if err != nil {
			lastErr = err
			t.Logf("redis not available at %s: %v", addr, err)
			continue
		}

		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() {
			if cerr := client.Close(); cerr != nil {
				t.Logf("warning: failed to close redis client: %v", cerr)
			}
		})
		return client
	}

	if redisRequired() {
		t.Fatalf("redis not available for testing: %v", lastErr)
	}
	t.Skipf("redis not available for testing: %v", lastErr)
	return nil
}

// TestChannel returns a pub/sub channel name unique to this run.
func TestChannel(prefix string) string {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "opscenter:test"
	}
	return prefix + ":" + uuid.NewString()
}
