package impl

import (
	"context"
	"testing"
	"time"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/infra/auth"
	"blogauth/internal/infra/persistence/memory"
	mockRepo "blogauth/internal/mocks/repository"
	mockSvc "blogauth/internal/mocks/service"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sessionServiceFixtures holds all test dependencies for session service tests.
type sessionServiceFixtures struct {
	service *sessionService
	store   *memory.Store
	metrics *mockSvc.MockAuthMetrics
	clock   *time.Time
}

func createTestSessionService(t *testing.T) sessionServiceFixtures {
	cfg := newTestConfig()
	cfg.Session.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Session.Issuer = "blogauth-test"

	signer, err := auth.NewJWTSessionSigner(auth.SessionSignerParams{Config: cfg, Logger: newDiscardLogger()})
	require.NoError(t, err)

	store := memory.NewStore()
	metrics := mockSvc.NewMockAuthMetrics(t)

	svc := NewSessionService(SessionServiceParams{
		Signer:   signer,
		UserRepo: store.UserRepo(),
		Metrics:  metrics,
		Config:   cfg,
		Logger:   newDiscardLogger(),
	}).(*sessionService)

	clock := time.Now()
	svc.now = func() time.Time { return clock }

	return sessionServiceFixtures{service: svc, store: store, metrics: metrics, clock: &clock}
}

func (f sessionServiceFixtures) seedUser(t *testing.T, role entity.Role) *entity.User {
	t.Helper()

	user := &entity.User{Email: uuid.NewString() + "@example.com", Name: "Session User", Role: role}
	require.NoError(t, f.store.UserRepo().Create(context.Background(), user))

	return user
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()
	userID := uuid.New()

	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()

	sess, err := fx.service.Issue(ctx, userID, entity.RoleAuthor)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 30*24*time.Hour, sess.ExpiresAt().Sub(sess.Claims.IssuedAt))

	validated, err := fx.service.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, validated.UserID())
	assert.Equal(t, entity.RoleAuthor, validated.Role())
	assert.True(t, sess.Claims.IssuedAt.Equal(validated.Claims.IssuedAt))
	assert.True(t, sess.Claims.ExpiresAt.Equal(validated.Claims.ExpiresAt))
}

func TestSessionService_Validate_RejectsTampering(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionRejected).Twice()

	sess, err := fx.service.Issue(ctx, uuid.New(), entity.RoleReader)
	require.NoError(t, err)

	_, err = fx.service.Validate(ctx, sess.Token+"x")
	assert.ErrorIs(t, err, service.ErrSessionInvalid)

	_, err = fx.service.Validate(ctx, "not-a-session")
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionService_Refresh_NotYetDue(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()
	sess, err := fx.service.Issue(ctx, uuid.New(), entity.RoleReader)
	require.NoError(t, err)

	*fx.clock = fx.clock.Add(23 * time.Hour)

	refreshed, changed, err := fx.service.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, sess, refreshed)
}

func TestSessionService_Refresh_RereadsRoleAfter24h(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()
	user := fx.seedUser(t, entity.RoleReader)

	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionRefreshed).Once()

	sess, err := fx.service.Issue(ctx, user.ID, entity.RoleReader)
	require.NoError(t, err)

	require.NoError(t, fx.store.UserRepo().UpdateRole(ctx, user.ID, entity.RoleAdmin))
	*fx.clock = fx.clock.Add(25 * time.Hour)

	refreshed, changed, err := fx.service.Refresh(ctx, sess)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, entity.RoleAdmin, refreshed.Role())
	assert.NotEqual(t, sess.Token, refreshed.Token)
	assert.Equal(t, fx.clock.Truncate(time.Second).Add(30*24*time.Hour), refreshed.ExpiresAt())
}

func TestSessionService_Refresh_DeletedUserInvalidates(t *testing.T) {
	fx := createTestSessionService(t)
	ctx := context.Background()

	fx.metrics.EXPECT().RecordSessionEvent(service.SessionIssued).Once()
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionRejected).Once()

	sess, err := fx.service.Issue(ctx, uuid.New(), entity.RoleAdmin)
	require.NoError(t, err)
	*fx.clock = fx.clock.Add(48 * time.Hour)

	_, _, err = fx.service.Refresh(ctx, sess)
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionService_Refresh_ExpiredSession(t *testing.T) {
	fx := createTestSessionService(t)
	fx.metrics.EXPECT().RecordSessionEvent(service.SessionRejected).Once()

	sess := &usecase.Session{Claims: service.SessionClaims{
		UserID:    uuid.New(),
		Role:      entity.RoleReader,
		IssuedAt:  fx.clock.Add(-31 * 24 * time.Hour),
		ExpiresAt: fx.clock.Add(-24 * time.Hour),
	}}

	_, _, err := fx.service.Refresh(context.Background(), sess)
	assert.ErrorIs(t, err, service.ErrSessionInvalid)
}

func TestSessionService_Refresh_StoreErrorIsNotInvalid(t *testing.T) {
	userRepo := mockRepo.NewMockUserRepository(t)
	cfg := newTestConfig()
	signer := mockSvc.NewMockSessionSigner(t)

	svc := NewSessionService(SessionServiceParams{
		Signer:   signer,
		UserRepo: userRepo,
		Metrics:  mockSvc.NewMockAuthMetrics(t),
		Config:   cfg,
		Logger:   newDiscardLogger(),
	})

	ctx := context.Background()
	now := time.Now()
	sess := &usecase.Session{Claims: service.SessionClaims{
		UserID:    uuid.New(),
		Role:      entity.RoleReader,
		IssuedAt:  now.Add(-48 * time.Hour),
		ExpiresAt: now.Add(28 * 24 * time.Hour),
	}}
	userRepo.EXPECT().FindByID(ctx, sess.Claims.UserID).Return(nil, errors.New("connection reset"))

	_, changed, err := svc.Refresh(ctx, sess)
	require.Error(t, err)
	assert.False(t, changed)
	assert.NotErrorIs(t, err, service.ErrSessionInvalid)
}
