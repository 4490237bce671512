package middlewares

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis instance for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestRateLimiter_Allow(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewRateLimiter(client, zap.NewNop(), false)

	ctx := context.Background()
	key := "test:user:123"
	limit := 5
	window := time.Minute

	for i := range limit {
		allowed, err := limiter.Allow(ctx, key, limit, window)
		assert.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, key, limit, window)
	assert.NoError(t, err)
	assert.False(t, allowed, "request above the limit should be denied")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewRateLimiter(client, zap.NewNop(), false)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	allowed, err = limiter.Allow(ctx, "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	allowed, err = limiter.Allow(ctx, "ip:5.6.7.8", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "another key has its own window")
}

func TestRateLimiter_Reset(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	limiter := NewRateLimiter(client, zap.NewNop(), false)
	ctx := context.Background()

	allowed, err := limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "k", time.Minute))

	allowed, err = limiter.Allow(ctx, "k", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_FailOpen(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	mr.Close() // Redis is gone

	limiter := NewRateLimiter(client, zap.NewNop(), true)
	allowed, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.NoError(t, err)
	assert.True(t, allowed, "fail-open limiter allows when Redis is down")

	strict := NewRateLimiter(client, zap.NewNop(), false)
	allowed, err = strict.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}
