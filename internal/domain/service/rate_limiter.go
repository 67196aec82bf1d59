package service

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of one RateLimiter.Check call.
type RateLimitDecision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter counts attempts per key within a fixed window.
//
// The first attempt in a window is allowed and opens the window. Further
// attempts are allowed while the count is below maxAttempts. Once the count
// reaches maxAttempts, attempts are denied until the window has elapsed, at
// which point the next attempt opens a new window.
type RateLimiter interface {
	Check(ctx context.Context, key string, maxAttempts int, window time.Duration) (RateLimitDecision, error)
}
