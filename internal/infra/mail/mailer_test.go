package mail

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"blogauth/config"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewMailer(t *testing.T) {
	cfg := &config.Config{}

	cfg.Mail.Provider = "log"
	mailer, err := NewMailer(cfg, newDiscardLogger())
	require.NoError(t, err)
	assert.IsType(t, &LogMailer{}, mailer)

	cfg.Mail.Provider = "smtp"
	_, err = NewMailer(cfg, newDiscardLogger())
	require.Error(t, err, "smtp needs a host")

	cfg.Mail.From = "Blog <no-reply@blog.example>"
	cfg.Mail.SMTP.Host = "smtp.blog.example"
	mailer, err = NewMailer(cfg, newDiscardLogger())
	require.NoError(t, err)
	assert.Equal(t, 587, mailer.(*SMTPMailer).port)

	cfg.Mail.Provider = "carrier-pigeon"
	_, err = NewMailer(cfg, newDiscardLogger())
	require.Error(t, err)
}

func newTestSMTPMailer(t *testing.T, from string, cfg config.SMTPConfig) *SMTPMailer {
	t.Helper()

	mailer, err := NewSMTPMailer(from, cfg)
	require.NoError(t, err)

	return mailer
}

func render(t *testing.T, msg *gomail.Msg) string {
	t.Helper()

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)

	return buf.String()
}

func TestNewSMTPMailer_InvalidFrom(t *testing.T) {
	_, err := NewSMTPMailer("not an address", config.SMTPConfig{Host: "smtp.blog.example"})
	require.Error(t, err)
}

func TestSMTPMailer_Send(t *testing.T) {
	mailer := newTestSMTPMailer(t, "Blog <no-reply@blog.example>", config.SMTPConfig{Host: "smtp.blog.example", Port: 2525})
	assert.Equal(t, 2525, mailer.port)

	var sent *gomail.Msg
	mailer.send = func(_ context.Context, msg *gomail.Msg) error {
		sent = msg

		return nil
	}

	err := mailer.Send(context.Background(), &service.Mail{
		To:      "reader@example.com",
		Subject: "Verify your email",
		Body:    "line one\nline two",
	})
	require.NoError(t, err)
	require.NotNil(t, sent)

	raw := render(t, sent)
	assert.Contains(t, raw, "no-reply@blog.example")
	assert.Contains(t, raw, "reader@example.com")
	assert.Contains(t, raw, "Subject: Verify your email")
	assert.Contains(t, raw, "line one")
	assert.Contains(t, raw, "line two")
}

func TestSMTPMailer_EncodesNonASCIISubject(t *testing.T) {
	mailer := newTestSMTPMailer(t, "no-reply@blog.example", config.SMTPConfig{Host: "smtp.blog.example"})

	var sent *gomail.Msg
	mailer.send = func(_ context.Context, msg *gomail.Msg) error {
		sent = msg

		return nil
	}

	err := mailer.Send(context.Background(), &service.Mail{To: "reader@example.com", Subject: "Vérifiez votre adresse", Body: "B"})
	require.NoError(t, err)

	raw := render(t, sent)
	assert.NotContains(t, raw, "Vérifiez")
	assert.Contains(t, raw, "=?UTF-8?")
}

func TestSMTPMailer_PermanentFailure(t *testing.T) {
	mailer := newTestSMTPMailer(t, "no-reply@blog.example", config.SMTPConfig{Host: "smtp.blog.example"})

	mailer.send = func(context.Context, *gomail.Msg) error {
		return &gomail.SendError{Reason: gomail.ErrSMTPRcptTo}
	}
	err := mailer.Send(context.Background(), &service.Mail{To: "gone@example.com"})
	assert.ErrorIs(t, err, service.ErrMailRejected)

	mailer.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("an unparsable recipient must not be sent")

		return nil
	}
	err = mailer.Send(context.Background(), &service.Mail{To: "not an address"})
	assert.ErrorIs(t, err, service.ErrMailRejected)
}

func TestSMTPMailer_TransientFailure(t *testing.T) {
	mailer := newTestSMTPMailer(t, "no-reply@blog.example", config.SMTPConfig{Host: "smtp.blog.example"})

	for name, sendErr := range map[string]error{
		"dial":      errors.New("dial tcp: connection refused"),
		"data step": &gomail.SendError{Reason: gomail.ErrSMTPData},
		"deadline":  context.DeadlineExceeded,
	} {
		t.Run(name, func(t *testing.T) {
			mailer.send = func(context.Context, *gomail.Msg) error { return sendErr }

			err := mailer.Send(context.Background(), &service.Mail{To: "reader@example.com"})
			require.Error(t, err)
			assert.NotErrorIs(t, err, service.ErrMailRejected)
		})
	}
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	mailer := newTestSMTPMailer(t, "no-reply@blog.example", config.SMTPConfig{Host: "smtp.blog.example"})
	mailer.send = func(context.Context, *gomail.Msg) error {
		t.Fatal("send after cancel")

		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, mailer.Send(ctx, &service.Mail{To: "reader@example.com"}), context.Canceled)
}
