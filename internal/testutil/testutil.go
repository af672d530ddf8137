// Package testutil provides the Redis container harness shared by the
// storage integration tests.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const defaultRedisImage = "redis:8-alpine"

// SetupRedis starts a throwaway Redis container and returns a client bound to
// it; both are torn down via t.Cleanup. The test is skipped when no container
// runtime is available. SCHEDULING_TEST_REDIS_IMAGE overrides the image for
// environments that mirror registries.
func SetupRedis(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()

	image := os.Getenv("SCHEDULING_TEST_REDIS_IMAGE")
	if image == "" {
		image = defaultRedisImage
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, image)
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}
	})

	return client
}
