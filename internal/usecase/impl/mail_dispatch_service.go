package impl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"
	"blogauth/internal/util"

	"go.uber.org/fx"
)

const (
	verifyEmailPath   = "/api/auth/verify-email"
	resetPasswordPath = "/auth/reset-password"
)

// mailDispatchService implements the MailDispatchUsecase interface.
type mailDispatchService struct {
	mailer  service.Mailer
	baseURL string
	logger  *slog.Logger
	now     func() time.Time
}

// MailDispatchServiceParams holds dependencies for MailDispatchService, injected by Fx.
type MailDispatchServiceParams struct {
	fx.In

	Mailer service.Mailer
	Config *config.Config
	Logger *slog.Logger
}

// NewMailDispatchService is the constructor for mailDispatchService.
func NewMailDispatchService(params MailDispatchServiceParams) usecase.MailDispatchUsecase {
	return &mailDispatchService{
		mailer:  params.Mailer,
		baseURL: strings.TrimRight(params.Config.Mail.BaseURL, "/"),
		logger:  params.Logger,
		now:     time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *mailDispatchService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Dispatch renders and sends one event. Events whose token already expired
// are dropped, since the link would be useless.
func (srv *mailDispatchService) Dispatch(ctx context.Context, event *service.AuthMailEvent) error {
	if event.Email == "" || event.Token == "" {
		return errors.Wrapf(usecase.ErrInvalidMailEvent, "event for user %q is missing email or token", event.UserID)
	}

	if !event.ExpiresAt.IsZero() && !srv.now().Before(event.ExpiresAt) {
		srv.log(ctx).Info("Skipping auth mail with expired token",
			slog.String("type", string(event.Type)),
			slog.String("user_id", event.UserID),
		)

		return nil
	}

	mail, err := srv.render(event)
	if err != nil {
		return err
	}

	if err := srv.mailer.Send(ctx, mail); err != nil {
		return errors.Wrapf(err, "failed to send %s mail", event.Type)
	}

	srv.log(ctx).Info("Auth mail sent",
		slog.String("type", string(event.Type)),
		slog.String("user_id", event.UserID),
		slog.String("email", event.Email),
	)

	return nil
}

func (srv *mailDispatchService) render(event *service.AuthMailEvent) (*service.Mail, error) {
	greeting := "Hi,"
	if event.Name != "" {
		greeting = fmt.Sprintf("Hi %s,", event.Name)
	}
	validFor := util.FormatDuration(event.ExpiresAt.Sub(srv.now()))

	switch event.Type {
	case service.MailVerificationRequested:
		link := srv.link(verifyEmailPath, event.Token)

		return &service.Mail{
			To:      event.Email,
			Subject: "Verify your email address",
			Body: fmt.Sprintf("%s\n\nPlease confirm your email address by opening the link below:\n\n%s\n\n"+
				"The link is valid for %s. If you did not create an account, you can ignore this message.\n",
				greeting, link, validFor),
		}, nil
	case service.MailPasswordResetRequested:
		link := srv.link(resetPasswordPath, event.Token)

		return &service.Mail{
			To:      event.Email,
			Subject: "Reset your password",
			Body: fmt.Sprintf("%s\n\nWe received a request to reset your password. Choose a new one here:\n\n%s\n\n"+
				"The link is valid for %s. If you did not ask for a reset, you can ignore this message.\n",
				greeting, link, validFor),
		}, nil
	default:
		return nil, errors.Wrapf(usecase.ErrUnknownMailType, "type %q", event.Type)
	}
}

func (srv *mailDispatchService) link(path, token string) string {
	return srv.baseURL + path + "?token=" + url.QueryEscape(token)
}
