package middleware

import (
	"strconv"

	"blogauth/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HeaderRateLimitRemaining reports the attempts left in the current window.
const HeaderRateLimitRemaining = "X-RateLimit-Remaining"

// RateLimitMiddleware counts attempts per action and client IP.
type RateLimitMiddleware struct {
	limiter usecase.RateLimitUsecase
}

// NewRateLimitMiddleware is the constructor for RateLimitMiddleware.
func NewRateLimitMiddleware(limiter usecase.RateLimitUsecase) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// Limit counts one attempt for action before the handler runs. Denied
// attempts never reach the handler.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision, err := m.limiter.Enforce(c.Request().Context(), action, c.RealIP())
			if decision != nil {
				c.Response().Header().Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			}
			if err != nil {
				return err
			}

			return next(c)
		}
	}
}
