package ratelimit

import (
	"context"
	"time"

	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"github.com/redis/go-redis/v9"
)

// checkScript applies one fixed-window check atomically. The window is a
// hash {count, start} with start in unix milliseconds.
//
// KEYS[1] window key
// ARGV[1] max attempts, ARGV[2] window ms, ARGV[3] now ms
// Returns {allowed, remaining, resetAt ms}.
var checkScript = redis.NewScript(`
local key = KEYS[1]
local max = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local state = redis.call('HMGET', key, 'count', 'start')
local count = tonumber(state[1])
local start = tonumber(state[2])

if count == nil or start == nil or now - start > window then
	redis.call('HSET', key, 'count', 1, 'start', now)
	redis.call('PEXPIRE', key, window + 1000)
	return {1, max - 1, now + window}
end

if count >= max then
	return {0, 0, start + window}
end

count = redis.call('HINCRBY', key, 'count', 1)
return {1, max - count, start + window}
`)

// RedisLimiter shares windows across every process that uses the same redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

var _ service.RateLimiter = (*RedisLimiter)(nil)

func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

func (l *RedisLimiter) Check(ctx context.Context, key string, maxAttempts int, length time.Duration) (service.RateLimitDecision, error) {
	result, err := checkScript.Run(ctx, l.client,
		[]string{l.prefix + ":" + key},
		maxAttempts, length.Milliseconds(), l.now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return service.RateLimitDecision{}, errors.Wrap(err, "rate limit script failed")
	}
	if len(result) != 3 {
		return service.RateLimitDecision{}, errors.Errorf("rate limit script returned %d values", len(result))
	}

	return service.RateLimitDecision{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetAt:   time.UnixMilli(result[2]),
	}, nil
}
