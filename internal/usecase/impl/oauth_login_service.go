package impl

import (
	"context"
	"log/slog"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/policy"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"go.uber.org/fx"
)

// oauthLoginService implements the OAuthLoginUsecase interface.
type oauthLoginService struct {
	providers       service.OAuthProviderRegistry
	stateStore      service.OAuthStateStore
	identity        usecase.IdentityUsecase
	sessions        usecase.SessionUsecase
	defaultCallback string
	logger          *slog.Logger
}

// OAuthLoginServiceParams holds dependencies for OAuthLoginService, injected by Fx.
type OAuthLoginServiceParams struct {
	fx.In

	Providers  service.OAuthProviderRegistry
	StateStore service.OAuthStateStore
	Identity   usecase.IdentityUsecase
	Sessions   usecase.SessionUsecase
	Config     *config.Config
	Logger     *slog.Logger
}

// NewOAuthLoginService is the constructor for oauthLoginService.
func NewOAuthLoginService(params OAuthLoginServiceParams) usecase.OAuthLoginUsecase {
	defaultCallback := params.Config.Access.AuthenticatedLanding
	if defaultCallback == "" {
		defaultCallback = policy.DefaultRules().AuthenticatedLanding
	}

	return &oauthLoginService{
		providers:       params.Providers,
		stateStore:      params.StateStore,
		identity:        params.Identity,
		sessions:        params.Sessions,
		defaultCallback: defaultCallback,
		logger:          params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *oauthLoginService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *oauthLoginService) Providers() []string {
	return srv.providers.Names()
}

func (srv *oauthLoginService) provider(name string) (service.OAuthProvider, error) {
	provider, ok := srv.providers.Provider(name)
	if !ok {
		return nil, errors.Wrapf(domainerrors.ErrNotFound, "oauth provider %q is not configured", name)
	}

	return provider, nil
}

// Begin returns the provider consent URL. callbackURL is sanitized before it
// is stored so the callback can only redirect on-site.
func (srv *oauthLoginService) Begin(ctx context.Context, providerName, callbackURL string) (*usecase.OAuthBeginOutput, error) {
	provider, err := srv.provider(providerName)
	if err != nil {
		return nil, err
	}

	state, err := srv.stateStore.Create(ctx, provider.Name(), policy.SanitizeRedirect(callbackURL, srv.defaultCallback))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create oauth state")
	}

	srv.log(ctx).Debug("OAuth sign-in started", slog.String("provider", provider.Name()))

	return &usecase.OAuthBeginOutput{
		ConsentURL: provider.AuthCodeURL(state),
		State:      state,
	}, nil
}

// Complete finishes the authorization-code flow and issues a session.
func (srv *oauthLoginService) Complete(ctx context.Context, providerName, code, state string) (*usecase.OAuthLoginOutput, error) {
	provider, err := srv.provider(providerName)
	if err != nil {
		return nil, err
	}

	callbackURL, err := srv.stateStore.Consume(ctx, provider.Name(), state)
	if err != nil {
		srv.log(ctx).Warn("OAuth state rejected", slog.String("provider", provider.Name()), slog.Any("error", err))

		return nil, domainerrors.NewAuthError(domainerrors.FailureOAuthExchange, errors.Wrap(err, "invalid oauth state"))
	}

	if code == "" {
		return nil, domainerrors.NewAuthError(domainerrors.FailureOAuthExchange, errors.New("missing authorization code"))
	}

	result, err := provider.Exchange(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("OAuth code exchange failed", slog.String("provider", provider.Name()), slog.Any("error", err))

		return nil, domainerrors.NewAuthError(domainerrors.FailureOAuthExchange, errors.Wrap(err, "code exchange"))
	}

	resolved, err := srv.identity.ResolveOAuthIdentity(ctx, result)
	if err != nil {
		return nil, err
	}

	sess, err := srv.sessions.Issue(ctx, resolved.UserID, resolved.Role)
	if err != nil {
		return nil, err
	}

	return &usecase.OAuthLoginOutput{
		Session:     sess,
		CallbackURL: policy.SanitizeRedirect(callbackURL, srv.defaultCallback),
		UserCreated: resolved.UserCreated,
	}, nil
}
