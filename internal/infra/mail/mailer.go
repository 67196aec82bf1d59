// Package mail delivers the messages produced by the mail worker.
package mail

import (
	"context"
	"log/slog"

	"blogauth/config"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
)

// NewMailer picks the Mailer for mail.provider.
func NewMailer(cfg *config.Config, logger *slog.Logger) (service.Mailer, error) {
	switch cfg.Mail.Provider {
	case constants.MailProviderLog, "":
		logger.Info("Using log mailer, mails are written to the log only")

		return NewLogMailer(logger), nil
	case constants.MailProviderSMTP:
		if cfg.Mail.SMTP.Host == "" {
			return nil, errors.New("mail.smtp.host is required for the smtp provider")
		}
		if cfg.Mail.From == "" {
			return nil, errors.New("mail.from is required for the smtp provider")
		}
		logger.Info("Using SMTP mailer", slog.String("host", cfg.Mail.SMTP.Host))

		mailer, err := NewSMTPMailer(cfg.Mail.From, cfg.Mail.SMTP)
		if err != nil {
			return nil, err
		}

		return mailer, nil
	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Mail.Provider)
	}
}

// LogMailer writes mails to the logger. Links carry live tokens, so it is
// meant for local development only.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, mail *service.Mail) error {
	m.logger.InfoContext(ctx, "[LogMailer] Mail",
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject),
		slog.String("body", mail.Body),
	)

	return nil
}
