package impl

import (
	"context"
	"log/slog"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/repository"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	signer    service.SessionSigner
	userRepo  repository.UserRepository
	metrics   service.AuthMetrics
	maxAge    time.Duration
	updateAge time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// SessionServiceParams holds dependencies for SessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	Signer   service.SessionSigner
	UserRepo repository.UserRepository
	Metrics  service.AuthMetrics
	Config   *config.Config
	Logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		signer:    params.Signer,
		userRepo:  params.UserRepo,
		metrics:   params.Metrics,
		maxAge:    params.Config.Session.MaxAge,
		updateAge: params.Config.Session.UpdateAge,
		logger:    params.Logger,
		now:       time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Issue signs a session valid for the configured max age.
func (srv *sessionService) Issue(ctx context.Context, userID uuid.UUID, role entity.Role) (*usecase.Session, error) {
	sess, err := srv.sign(userID, role)
	if err != nil {
		return nil, err
	}

	srv.metrics.RecordSessionEvent(service.SessionIssued)
	srv.log(ctx).Debug("Session issued", slog.Any("user_id", userID), slog.String("role", role.String()))

	return sess, nil
}

func (srv *sessionService) sign(userID uuid.UUID, role entity.Role) (*usecase.Session, error) {
	issuedAt := srv.now().Truncate(time.Second)
	claims := service.SessionClaims{
		UserID:    userID,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.Add(srv.maxAge),
	}

	token, err := srv.signer.Sign(claims)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session")
	}

	return &usecase.Session{Token: token, Claims: claims}, nil
}

// Validate opens a raw session token.
func (srv *sessionService) Validate(ctx context.Context, raw string) (*usecase.Session, error) {
	claims, err := srv.signer.Parse(raw)
	if err != nil {
		srv.metrics.RecordSessionEvent(service.SessionRejected)
		srv.log(ctx).Debug("Session rejected", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to validate session")
	}

	return &usecase.Session{Token: raw, Claims: *claims}, nil
}

// Refresh re-issues a session older than the update age with the role
// currently stored for its user. This bounds how long a role change takes
// to reach an existing session.
func (srv *sessionService) Refresh(ctx context.Context, sess *usecase.Session) (*usecase.Session, bool, error) {
	now := srv.now()
	if !now.Before(sess.Claims.ExpiresAt) {
		srv.metrics.RecordSessionEvent(service.SessionRejected)

		return nil, false, errors.Wrap(service.ErrSessionInvalid, "session expired")
	}
	if now.Sub(sess.Claims.IssuedAt) <= srv.updateAge {
		return sess, false, nil
	}

	user, err := srv.userRepo.FindByID(ctx, sess.Claims.UserID)
	if errors.Is(err, repository.ErrUserNotFound) {
		srv.metrics.RecordSessionEvent(service.SessionRejected)
		srv.log(ctx).Info("Session refers to a deleted user", slog.Any("user_id", sess.Claims.UserID))

		return nil, false, errors.Wrap(service.ErrSessionInvalid, "session user no longer exists")
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to load session user")
	}

	refreshed, err := srv.sign(user.ID, user.Role)
	if err != nil {
		return nil, false, err
	}

	srv.metrics.RecordSessionEvent(service.SessionRefreshed)
	if user.Role != sess.Claims.Role {
		srv.log(ctx).Info("Session role updated on refresh",
			slog.Any("user_id", user.ID),
			slog.String("from", sess.Claims.Role.String()),
			slog.String("to", user.Role.String()),
		)
	}

	return refreshed, true, nil
}
