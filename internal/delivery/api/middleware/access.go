package middleware

import (
	"net/http"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/policy"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"github.com/labstack/echo/v4"
)

// AccessMiddleware applies the access policy to every request. It must run
// after SessionMiddleware.Load.
type AccessMiddleware struct {
	policy *policy.Policy
}

// NewAccessPolicy builds the policy from the access config section.
func NewAccessPolicy(cfg *config.Config) *policy.Policy {
	return policy.New(policy.Rules{
		SigninPath:           cfg.Access.SigninPath,
		Landing:              cfg.Access.Landing,
		AuthenticatedLanding: cfg.Access.AuthenticatedLanding,
		AuthEntryPrefixes:    cfg.Access.AuthEntryPrefixes,
		ProtectedPrefixes:    cfg.Access.ProtectedPrefixes,
		AdminPrefixes:        cfg.Access.AdminPrefixes,
		AuthorPrefixes:       cfg.Access.AuthorPrefixes,
	})
}

// NewAccessMiddleware is the constructor for AccessMiddleware.
func NewAccessMiddleware(p *policy.Policy) *AccessMiddleware {
	return &AccessMiddleware{policy: p}
}

// Enforce redirects with 302 or answers 403 according to the policy.
func (m *AccessMiddleware) Enforce(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		var claims *service.SessionClaims
		if sess, ok := deliverycontext.GetSession(c); ok {
			claims = &sess.Claims
		}

		decision := m.policy.Decide(policy.Request{
			Method:      req.Method,
			Path:        req.URL.Path,
			CallbackURL: c.QueryParam("callbackUrl"),
			Origin:      req.Header.Get(echo.HeaderOrigin),
			Host:        req.Host,
		}, claims)

		switch decision.Outcome {
		case policy.OutcomeRedirect:
			return c.Redirect(http.StatusFound, decision.Location)
		case policy.OutcomeDeny:
			return domainerrors.NewAuthError(domainerrors.FailureForbidden,
				errors.Errorf("access policy denied %s %s", req.Method, req.URL.Path))
		default:
			return next(c)
		}
	}
}
