// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"blogauth/config"
	"blogauth/internal/delivery/api/middleware"
	"blogauth/internal/delivery/api/router/handler"
	"blogauth/internal/domain/constants"
	"blogauth/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	OAuthHandler        *handler.OAuthHandler
	SessionMiddleware   *middleware.SessionMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
	Metrics             *metrics.Metrics `optional:"true"`
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	oauthHandler        *handler.OAuthHandler
	sessionMiddleware   *middleware.SessionMiddleware
	rateLimitMiddleware *middleware.RateLimitMiddleware
	metrics             *metrics.Metrics
	config              *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		oauthHandler:        params.OAuthHandler,
		sessionMiddleware:   params.SessionMiddleware,
		rateLimitMiddleware: params.RateLimitMiddleware,
		metrics:             params.Metrics,
		config:              params.Config,
	}
}

// RegisterRoutes sets up all the routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics.Enabled && r.metrics != nil {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	limit := r.rateLimitMiddleware.Limit

	authGroup := e.Group("/api/auth")
	{
		authGroup.POST("/signup", r.authHandler.Signup, limit(constants.ActionSignup))
		authGroup.POST("/signin", r.authHandler.Signin, limit(constants.ActionSignin))
		authGroup.POST("/signout", r.authHandler.Signout)
		authGroup.GET("/session", r.authHandler.Session, r.sessionMiddleware.RequireSession)
		authGroup.POST("/forgot-password", r.authHandler.ForgotPassword, limit(constants.ActionForgotPassword))
		authGroup.POST("/reset-password", r.authHandler.ResetPassword, limit(constants.ActionResetPassword))
		authGroup.GET("/verify-email", r.authHandler.VerifyEmail)
	}

	oauthGroup := authGroup.Group("/oauth")
	{
		oauthGroup.GET("/providers", r.oauthHandler.Providers)
		oauthGroup.GET("/:provider", r.oauthHandler.Begin)
		oauthGroup.GET("/:provider/callback", r.oauthHandler.Callback)
	}

	r.registerPages(e)
}

// registerPages answers the page routes guarded by the access policy.
func (r *router) registerPages(e *echo.Echo) {
	for _, path := range []string{
		"/",
		"/dashboard", "/dashboard/*",
		"/admin", "/admin/*",
		"/auth/signin", "/auth/signup", "/auth/forgot-password",
		"/auth/reset-password", "/auth/error",
	} {
		e.GET(path, handler.Page)
	}
}
