package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/infra/auth"
	"blogauth/internal/infra/metrics"
	"blogauth/internal/infra/persistence/memory"
	mockSvc "blogauth/internal/mocks/service"
	"blogauth/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvTest
	cfg.Session.MaxAge = 30 * 24 * time.Hour
	cfg.Session.UpdateAge = 24 * time.Hour
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Auth.VerificationTokenTTL = 24 * time.Hour
	cfg.Auth.ResetTokenTTL = time.Hour
	cfg.RateLimit.Policies = config.DefaultRateLimitPolicies()
	cfg.Mail.BaseURL = "https://blog.example.com/"
	cfg.Access.AuthenticatedLanding = "/dashboard"

	return cfg
}

// identityFixtures wires the identity service to a real in-memory store.
type identityFixtures struct {
	service   usecase.IdentityUsecase
	store     *memory.Store
	hasher    service.PasswordHasher
	publisher *mockSvc.MockEventPublisher
}

func createTestIdentityService(t *testing.T, cfg *config.Config) identityFixtures {
	t.Helper()

	store := memory.NewStore()
	hasher := auth.NewBcryptHasher(cfg)
	publisher := mockSvc.NewMockEventPublisher(t)

	svc := NewIdentityService(IdentityServiceParams{
		TxManager:        store.TransactionManager(),
		UserRepo:         store.UserRepo(),
		VerificationRepo: store.VerificationTokenRepo(),
		ResetRepo:        store.PasswordResetTokenRepo(),
		Hasher:           hasher,
		TokenIssuer:      auth.NewTokenIssuer(),
		Publisher:        publisher,
		Metrics:          metrics.Noop{},
		Config:           cfg,
		Logger:           newDiscardLogger(),
	})

	return identityFixtures{
		service:   svc,
		store:     store,
		hasher:    hasher,
		publisher: publisher,
	}
}

// seedUser stores a user directly, bypassing signup.
func (f identityFixtures) seedUser(t *testing.T, email, password string, verified bool) *entity.User {
	t.Helper()

	user := &entity.User{Email: email, Name: "Seeded User", Role: entity.RoleReader}
	if password != "" {
		hash, err := f.hasher.Hash(password)
		require.NoError(t, err)
		user.PasswordHash = &hash
	}
	if verified {
		user.MarkEmailVerified(time.Now())
	}
	require.NoError(t, f.store.UserRepo().Create(context.Background(), user))

	return user
}

// seedLink attaches a provider account to user.
func (f identityFixtures) seedLink(t *testing.T, user *entity.User, provider, accountID string) {
	t.Helper()

	require.NoError(t, f.store.LinkedAccountRepo().Create(context.Background(), &entity.LinkedAccount{
		UserID:            user.ID,
		Type:              "oauth",
		Provider:          provider,
		ProviderAccountID: accountID,
	}))
}
