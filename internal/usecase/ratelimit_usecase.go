package usecase

import (
	"context"

	"blogauth/internal/domain/service"
)

// RateLimitUsecase applies the per-action attempt budgets.
type RateLimitUsecase interface {
	// Enforce counts one attempt of action from clientIP. A denied attempt
	// returns a rate-limited AuthError alongside the decision.
	Enforce(ctx context.Context, action, clientIP string) (*service.RateLimitDecision, error)
}
