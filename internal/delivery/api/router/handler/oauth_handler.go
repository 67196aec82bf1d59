package handler

import (
	"log/slog"
	"net/http"

	"blogauth/internal/delivery/api/middleware"
	"blogauth/internal/delivery/api/response"
	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// Error codes shown on /auth/error after a failed provider callback.
const (
	oauthCallbackError     = "OAuthCallback"
	oauthNotLinkedError    = "OAuthAccountNotLinked"
	oauthAccessDeniedError = "AccessDenied"
)

// OAuthHandlerParams holds dependencies for OAuthHandler, injected by Fx.
type OAuthHandlerParams struct {
	fx.In

	OAuthUC     usecase.OAuthLoginUsecase
	Cookies     *middleware.SessionCookies
	StateCookie *middleware.OAuthStateCookie
	Logger      *slog.Logger
}

// OAuthHandler runs the browser side of the authorization-code flow.
type OAuthHandler struct {
	oauthUC     usecase.OAuthLoginUsecase
	cookies     *middleware.SessionCookies
	stateCookie *middleware.OAuthStateCookie
	logger      *slog.Logger
}

// NewOAuthHandler is the constructor for OAuthHandler.
func NewOAuthHandler(params OAuthHandlerParams) *OAuthHandler {
	return &OAuthHandler{
		oauthUC:     params.OAuthUC,
		cookies:     params.Cookies,
		stateCookie: params.StateCookie,
		logger:      params.Logger,
	}
}

type ProvidersResponse struct {
	Providers []string `json:"providers"`
}

// Providers lists the configured sign-in providers.
func (h *OAuthHandler) Providers(c echo.Context) error {
	providers := h.oauthUC.Providers()
	if providers == nil {
		providers = []string{}
	}

	return response.Success(c, http.StatusOK, ProvidersResponse{Providers: providers})
}

// Begin redirects to the provider's consent page and pins the flow's state
// to this browser.
func (h *OAuthHandler) Begin(c echo.Context) error {
	out, err := h.oauthUC.Begin(c.Request().Context(), c.Param("provider"), c.QueryParam("callbackUrl"))
	if err != nil {
		return err
	}

	h.stateCookie.Set(c, out.State)

	return c.Redirect(http.StatusFound, out.ConsentURL)
}

// Callback finishes the flow. Every failure lands on the auth error page.
func (h *OAuthHandler) Callback(c echo.Context) error {
	ctx := c.Request().Context()
	log := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	provider := c.Param("provider")
	state := c.QueryParam("state")

	stateMatches := h.stateCookie.Matches(c, state)
	h.stateCookie.Clear(c)

	// The user declined on the consent page.
	if providerErr := c.QueryParam("error"); providerErr != "" {
		log.Info("OAuth consent declined",
			slog.String("provider", provider),
			slog.String("provider_error", providerErr),
		)

		return c.Redirect(http.StatusFound, authErrorURL(oauthAccessDeniedError))
	}

	if !stateMatches {
		log.Warn("OAuth callback without matching state cookie", slog.String("provider", provider))

		return c.Redirect(http.StatusFound, authErrorURL(oauthCallbackError))
	}

	out, err := h.oauthUC.Complete(ctx, provider, c.QueryParam("code"), state)
	if err != nil {
		failure := domainerrors.FailureOf(err)
		log.Warn("OAuth callback failed",
			slog.String("provider", provider),
			slog.String("failure", failure.String()),
			slog.Any("error", err),
		)

		code := oauthCallbackError
		if failure == domainerrors.FailureAccountNotLinked {
			code = oauthNotLinkedError
		}

		return c.Redirect(http.StatusFound, authErrorURL(code))
	}

	h.cookies.Set(c, out.Session)
	deliverycontext.SetSession(c, out.Session)

	log.Info("OAuth sign-in completed",
		slog.String("provider", provider),
		slog.Any("user_id", out.Session.UserID()),
		slog.Bool("user_created", out.UserCreated),
	)

	return c.Redirect(http.StatusFound, out.CallbackURL)
}
