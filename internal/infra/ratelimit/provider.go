package ratelimit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/infra/redisclient"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Lc      fx.Lifecycle
	Config  *config.Config
	Logger  *slog.Logger
	Metrics service.AuthMetrics
	Redis   *redis.Client `optional:"true"`
}

// New selects the backend from rateLimit.backend and wraps it with the
// failure policy and metrics.
func New(params Params) (service.RateLimiter, error) {
	var backend service.RateLimiter

	switch params.Config.RateLimit.Backend {
	case constants.RateLimitBackendRedis:
		if params.Redis == nil {
			return nil, errors.New("redis rate limit backend selected but redis is not configured")
		}
		backend = NewRedisLimiter(params.Redis, redisclient.Key(params.Config, "ratelimit"))
		params.Logger.Info("Rate limiter backed by redis")
	default:
		memory := NewMemoryLimiter(params.Config.RateLimit.CleanupInterval)
		params.Lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return memory.Close()
			},
		})
		backend = memory
		params.Logger.Info("Rate limiter backed by process memory")
	}

	return NewGuarded(backend, params.Config.RateLimit.FailOpen, params.Metrics, params.Logger), nil
}

// Guarded applies the fail-open/fail-closed policy to backend errors and
// records every decision. It never returns an error.
type Guarded struct {
	next     service.RateLimiter
	failOpen bool
	metrics  service.AuthMetrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewGuarded(next service.RateLimiter, failOpen bool, metrics service.AuthMetrics, logger *slog.Logger) *Guarded {
	return &Guarded{
		next:     next,
		failOpen: failOpen,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

func (g *Guarded) Check(ctx context.Context, key string, maxAttempts int, length time.Duration) (service.RateLimitDecision, error) {
	action := actionOf(key)

	decision, err := g.next.Check(ctx, key, maxAttempts, length)
	if err != nil {
		if g.failOpen {
			g.logger.WarnContext(ctx, "Rate limiter unavailable, allowing request",
				slog.String("action", action),
				slog.Any("error", err),
			)
			g.metrics.RecordRateLimitDecision(action, service.RateLimitErrorAllowed)

			return service.RateLimitDecision{Allowed: true, Remaining: 0, ResetAt: g.now().Add(length)}, nil
		}

		g.logger.ErrorContext(ctx, "Rate limiter unavailable, denying request",
			slog.String("action", action),
			slog.Any("error", err),
		)
		g.metrics.RecordRateLimitDecision(action, service.RateLimitErrorDenied)

		return service.RateLimitDecision{Allowed: false, Remaining: 0, ResetAt: g.now().Add(length)}, nil
	}

	if decision.Allowed {
		g.metrics.RecordRateLimitDecision(action, service.RateLimitAllowed)
	} else {
		g.metrics.RecordRateLimitDecision(action, service.RateLimitDenied)
	}

	return decision, nil
}

// actionOf returns the action part of an "action:ip" key.
func actionOf(key string) string {
	action, _, _ := strings.Cut(key, ":")

	return action
}
