package impl

import (
	"context"
	"log/slog"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/constants"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"go.uber.org/fx"
)

// rateLimitMessages are the client messages for each limited action.
var rateLimitMessages = map[string]string{
	constants.ActionSignup:         "Too many signup attempts. Please try again later.",
	constants.ActionSignin:         "Too many sign-in attempts. Please try again later.",
	constants.ActionForgotPassword: "Too many password reset requests. Please try again later.",
	constants.ActionResetPassword:  "Too many password reset attempts. Please try again later.",
}

// rateLimitService implements the RateLimitUsecase interface.
type rateLimitService struct {
	limiter  service.RateLimiter
	policies map[string]config.RateLimitPolicy
	logger   *slog.Logger
}

// RateLimitServiceParams holds dependencies for RateLimitService, injected by Fx.
type RateLimitServiceParams struct {
	fx.In

	Limiter service.RateLimiter
	Config  *config.Config
	Logger  *slog.Logger
}

// NewRateLimitService is the constructor for rateLimitService.
func NewRateLimitService(params RateLimitServiceParams) usecase.RateLimitUsecase {
	return &rateLimitService{
		limiter:  params.Limiter,
		policies: params.Config.RateLimit.Policies,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *rateLimitService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Enforce counts one attempt under the key "<action>:<clientIP>".
func (srv *rateLimitService) Enforce(ctx context.Context, action, clientIP string) (*service.RateLimitDecision, error) {
	policy, ok := srv.policies[action]
	if !ok || policy.MaxAttempts <= 0 || policy.Window <= 0 {
		return nil, errors.Errorf("no rate limit policy for action %q", action)
	}
	if clientIP == "" {
		clientIP = "unknown"
	}

	decision, err := srv.limiter.Check(ctx, action+":"+clientIP, policy.MaxAttempts, policy.Window)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check rate limit")
	}

	if !decision.Allowed {
		srv.log(ctx).Warn("Rate limit exceeded",
			slog.String("action", action),
			slog.String("client_ip", clientIP),
			slog.Time("reset_at", decision.ResetAt),
		)

		rateLimited := domainerrors.NewRateLimitedError(decision.ResetAt)
		if msg, ok := rateLimitMessages[action]; ok {
			rateLimited = rateLimited.WithPublicMessage(msg)
		}

		return &decision, rateLimited
	}

	return &decision, nil
}
