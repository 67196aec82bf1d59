package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// ContentSecurityPolicy is sent on every response.
const ContentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-eval' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https: blob:; " +
	"font-src 'self' data:; " +
	"connect-src 'self' https: wss:; " +
	"frame-ancestors 'none'"

const referrerPolicy = "strict-origin-when-cross-origin"

// SecurityHeaders sets the browser hardening headers. HSTS is only sent in
// production, where the service sits behind TLS.
func SecurityHeaders(production bool) echo.MiddlewareFunc {
	cfg := echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: ContentSecurityPolicy,
		ReferrerPolicy:        referrerPolicy,
	}
	if production {
		cfg.HSTSMaxAge = 31536000
	}

	return echomiddleware.SecureWithConfig(cfg)
}
