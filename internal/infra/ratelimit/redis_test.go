package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T) *RedisLimiter {
	t.Helper()

	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}

	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, "blogauth-test:"+uuid.NewString())
}

func TestRedisLimiter_FourthAttemptDenied(t *testing.T) {
	ctx := context.Background()
	limiter := newTestRedisLimiter(t)
	start := time.Now().Truncate(time.Millisecond)
	limiter.now = func() time.Time { return start }

	for i := range 3 {
		decision, err := limiter.Check(ctx, "signup:10.0.0.1", 3, 15*time.Minute)
		require.NoError(t, err)
		assert.True(t, decision.Allowed)
		assert.Equal(t, 2-i, decision.Remaining)
	}

	decision, err := limiter.Check(ctx, "signup:10.0.0.1", 3, 15*time.Minute)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, start.Add(15*time.Minute).UnixMilli(), decision.ResetAt.UnixMilli())

	limiter.now = func() time.Time { return start.Add(15*time.Minute + time.Millisecond) }
	decision, err = limiter.Check(ctx, "signup:10.0.0.1", 3, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Equal(t, 2, decision.Remaining)
}
