// Package ratelimit implements fixed-window attempt counting for the
// authentication endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"blogauth/internal/domain/service"
)

// window is the counting state for one key.
type window struct {
	count  int
	start  time.Time
	length time.Duration
}

// MemoryLimiter keeps windows in process memory. It is safe for concurrent
// use, but counts are per process.
//
// A background goroutine evicts elapsed windows. Call Close to stop it.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

var _ service.RateLimiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter starts a limiter whose janitor runs every cleanupInterval.
func NewMemoryLimiter(cleanupInterval time.Duration) *MemoryLimiter {
	return newMemoryLimiter(cleanupInterval, time.Now)
}

func newMemoryLimiter(cleanupInterval time.Duration, now func() time.Time) *MemoryLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	l := &MemoryLimiter{
		windows:  make(map[string]*window),
		now:      now,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop(cleanupInterval)

	return l
}

func (l *MemoryLimiter) Check(_ context.Context, key string, maxAttempts int, length time.Duration) (service.RateLimitDecision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) > length {
		l.windows[key] = &window{count: 1, start: now, length: length}

		return service.RateLimitDecision{
			Allowed:   true,
			Remaining: maxAttempts - 1,
			ResetAt:   now.Add(length),
		}, nil
	}

	resetAt := w.start.Add(length)
	if w.count >= maxAttempts {
		return service.RateLimitDecision{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	w.count++

	return service.RateLimitDecision{
		Allowed:   true,
		Remaining: maxAttempts - w.count,
		ResetAt:   resetAt,
	}, nil
}

// Len returns the number of tracked keys.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.windows)
}

// Close stops the janitor. It is safe to call more than once.
func (l *MemoryLimiter) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopChan)
	})
	l.wg.Wait()

	return nil
}

func (l *MemoryLimiter) cleanupLoop(interval time.Duration) {
	defer l.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.evictElapsed()
		case <-l.stopChan:
			return
		}
	}
}

func (l *MemoryLimiter) evictElapsed() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, w := range l.windows {
		if now.Sub(w.start) > w.length {
			delete(l.windows, key)
		}
	}
}
