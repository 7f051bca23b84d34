package api

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
			Labels:       map[string]string{"test": "hushhush-api", "cleanup": "auto"},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisRateLimiter(t *testing.T) {
	client := setupRedis(t)
	rl := newRedisRateLimiter(client)
	ctx := context.Background()

	t.Run("counts within a window", func(t *testing.T) {
		assert.True(t, rl.Allow("login:ip:1", 2, time.Minute).allowed)
		assert.True(t, rl.Allow("login:ip:1", 2, time.Minute).allowed)
		denied := rl.Allow("login:ip:1", 2, time.Minute)
		assert.False(t, denied.allowed)
		assert.Equal(t, 3, denied.count)

		ttl, err := client.TTL(ctx, "hushhush:ratelimit:login:ip:1").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
	})

	t.Run("key without expiry gets one", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "hushhush:ratelimit:login:ip:2", 50, 0).Err())

		denied := rl.Allow("login:ip:2", 2, time.Minute)
		assert.False(t, denied.allowed)

		ttl, err := client.TTL(ctx, "hushhush:ratelimit:login:ip:2").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("window resets after expiry", func(t *testing.T) {
		assert.True(t, rl.Allow("login:ip:3", 1, time.Second).allowed)
		assert.False(t, rl.Allow("login:ip:3", 1, time.Second).allowed)

		assert.Eventually(t, func() bool {
			return rl.Allow("login:ip:3", 1, time.Second).allowed
		}, 5*time.Second, 200*time.Millisecond)
	})
}
