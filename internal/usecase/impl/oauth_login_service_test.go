package impl

import (
	"context"
	"testing"

	"blogauth/internal/domain/entity"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/infra/oauth"
	mockSvc "blogauth/internal/mocks/service"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// oauthLoginFixtures wires the login flow to a mocked provider and a real
// identity service over the in-memory store.
type oauthLoginFixtures struct {
	service    usecase.OAuthLoginUsecase
	provider   *mockSvc.MockOAuthProvider
	stateStore *mockSvc.MockOAuthStateStore
	identity   identityFixtures
	metrics    *mockSvc.MockAuthMetrics
}

func createTestOAuthLoginService(t *testing.T) oauthLoginFixtures {
	cfg := newTestConfig()
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"

	provider := mockSvc.NewMockOAuthProvider(t)
	provider.EXPECT().Name().Return(entity.ProviderGitHub).Maybe()

	stateStore := mockSvc.NewMockOAuthStateStore(t)
	identity := createTestIdentityService(t, cfg)
	metrics := mockSvc.NewMockAuthMetrics(t)
	signer := mockSvc.NewMockSessionSigner(t)
	signer.EXPECT().Sign(mock.Anything).Return("signed-session", nil).Maybe()

	sessions := NewSessionService(SessionServiceParams{
		Signer:   signer,
		UserRepo: identity.store.UserRepo(),
		Metrics:  metrics,
		Config:   cfg,
		Logger:   newDiscardLogger(),
	})

	svc := NewOAuthLoginService(OAuthLoginServiceParams{
		Providers:  oauth.NewStaticRegistry(provider),
		StateStore: stateStore,
		Identity:   identity.service,
		Sessions:   sessions,
		Config:     cfg,
		Logger:     newDiscardLogger(),
	})

	return oauthLoginFixtures{
		service:    svc,
		provider:   provider,
		stateStore: stateStore,
		identity:   identity,
		metrics:    metrics,
	}
}

func TestOAuthLoginService_Begin(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()

	fx.stateStore.EXPECT().Create(ctx, entity.ProviderGitHub, "/dashboard/posts").Return("state-1", nil)
	fx.provider.EXPECT().AuthCodeURL("state-1").Return("https://github.com/login/oauth/authorize?state=state-1")

	out, err := fx.service.Begin(ctx, entity.ProviderGitHub, "/dashboard/posts")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/login/oauth/authorize?state=state-1", out.ConsentURL)
	assert.Equal(t, "state-1", out.State)
	assert.Equal(t, []string{entity.ProviderGitHub}, fx.service.Providers())
}

func TestOAuthLoginService_Begin_SanitizesCallback(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()

	fx.stateStore.EXPECT().Create(ctx, entity.ProviderGitHub, "/dashboard").Return("state-1", nil)
	fx.provider.EXPECT().AuthCodeURL("state-1").Return("https://provider/authorize")

	_, err := fx.service.Begin(ctx, entity.ProviderGitHub, "//evil.example.com")
	require.NoError(t, err)
}

func TestOAuthLoginService_Begin_UnknownProvider(t *testing.T) {
	fx := createTestOAuthLoginService(t)

	_, err := fx.service.Begin(context.Background(), "gitlab", "/")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOAuthLoginService_Complete_SignsInNewUser(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()

	fx.stateStore.EXPECT().Consume(ctx, entity.ProviderGitHub, "state-1").Return("/dashboard/posts", nil)
	fx.provider.EXPECT().Exchange(ctx, "code-1").Return(githubResult("1001", "octo@example.com", "Octo"), nil)
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()

	output, err := fx.service.Complete(ctx, entity.ProviderGitHub, "code-1", "state-1")
	require.NoError(t, err)

	assert.True(t, output.UserCreated)
	assert.Equal(t, "/dashboard/posts", output.CallbackURL)
	assert.Equal(t, "signed-session", output.Session.Token)
	assert.Equal(t, entity.RoleReader, output.Session.Role())

	user, err := fx.identity.store.UserRepo().FindByEmail(ctx, "octo@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, output.Session.UserID())
}

func TestOAuthLoginService_Complete_InvalidState(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()

	fx.stateStore.EXPECT().Consume(ctx, entity.ProviderGitHub, "forged").Return("", oauth.ErrInvalidState)

	_, err := fx.service.Complete(ctx, entity.ProviderGitHub, "code-1", "forged")
	requireFailure(t, err, domainerrors.FailureOAuthExchange)
	assert.ErrorIs(t, err, oauth.ErrInvalidState)
}

func TestOAuthLoginService_Complete_ExchangeFailure(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()

	fx.stateStore.EXPECT().Consume(ctx, entity.ProviderGitHub, "state-1").Return("/", nil)
	fx.provider.EXPECT().Exchange(ctx, "bad-code").Return(nil, errors.New("bad_verification_code"))

	_, err := fx.service.Complete(ctx, entity.ProviderGitHub, "bad-code", "state-1")
	authErr := requireFailure(t, err, domainerrors.FailureOAuthExchange)
	assert.Equal(t, string(domainerrors.PublicOAuthFailed), authErr.ErrorCode())
	assert.Equal(t, 0, fx.identity.store.Stats().Users)
}

func TestOAuthLoginService_Complete_SessionCarriesStoredRole(t *testing.T) {
	fx := createTestOAuthLoginService(t)
	ctx := context.Background()
	existing := fx.identity.seedUser(t, "octo@example.com", "", true)
	require.NoError(t, fx.identity.store.UserRepo().UpdateRole(ctx, existing.ID, entity.RoleAdmin))

	fx.stateStore.EXPECT().Consume(ctx, entity.ProviderGitHub, "state-1").Return("/admin", nil)
	fx.provider.EXPECT().Exchange(ctx, "code-1").Return(githubResult("1001", "octo@example.com", "Octo"), nil)
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()

	output, err := fx.service.Complete(ctx, entity.ProviderGitHub, "code-1", "state-1")
	require.NoError(t, err)

	assert.False(t, output.UserCreated)
	assert.Equal(t, existing.ID, output.Session.UserID())
	assert.Equal(t, entity.RoleAdmin, output.Session.Role())
	assert.NotEqual(t, uuid.Nil, output.Session.UserID())
}
