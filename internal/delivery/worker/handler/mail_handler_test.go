package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	mockSvc "blogauth/internal/mocks/service"
	"blogauth/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMailHandler(t *testing.T, configure ...func(*config.Config)) (*MailHandler, *mockSvc.MockMailer) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Env.Env = constants.EnvTest
	cfg.Mail.BaseURL = "https://blog.example.com"
	cfg.PubSub = &config.PubSubConfig{Provider: constants.PubSubProviderLocal}
	for _, fn := range configure {
		fn(cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := mockSvc.NewMockMailer(t)
	mailUC := impl.NewMailDispatchService(impl.MailDispatchServiceParams{
		Mailer: mailer,
		Config: cfg,
		Logger: logger,
	})

	return NewMailHandler(MailHandlerParams{Config: cfg, Logger: logger, MailUC: mailUC}), mailer
}

func pushBody(t *testing.T, data string, attributes map[string]string) string {
	t.Helper()

	var msg PubSubMessage
	msg.Message.Data = data
	msg.Message.MessageID = "msg-1"
	msg.Message.Attributes = attributes
	msg.Subscription = "projects/test/subscriptions/auth-mail"

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	return string(raw)
}

func encodeEvent(t *testing.T, event *service.AuthMailEvent) string {
	t.Helper()

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	return base64.StdEncoding.EncodeToString(raw)
}

func verificationEvent() *service.AuthMailEvent {
	return &service.AuthMailEvent{
		RequestID: "req-event",
		Type:      service.MailVerificationRequested,
		UserID:    "user-1",
		Email:     "ada@example.com",
		Name:      "Ada",
		Token:     "verify-token",
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
}

func servePush(h *MailHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	_ = h.HandleMail(e.NewContext(req, rec))

	return rec
}

func TestMailHandler_HandleMail_SendsMail(t *testing.T) {
	h, mailer := newTestMailHandler(t)

	var (
		sent      *service.Mail
		requestID string
	)
	mailer.EXPECT().
		Send(mock.Anything, mock.AnythingOfType("*service.Mail")).
		Run(func(ctx context.Context, mail *service.Mail) {
			sent = mail
			requestID = deliverycontext.GetRequestIDFromContext(ctx)
		}).
		Return(nil)

	body := pushBody(t, encodeEvent(t, verificationEvent()), map[string]string{"request_id": "req-attr"})
	rec := servePush(h, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, sent)
	assert.Equal(t, "ada@example.com", sent.To)
	assert.Contains(t, sent.Body, "https://blog.example.com/api/auth/verify-email?token=verify-token")
	assert.Equal(t, "req-attr", requestID, "attribute request id takes priority over the event's")
}

func TestMailHandler_HandleMail_RequestIDFromEvent(t *testing.T) {
	h, mailer := newTestMailHandler(t)

	var requestID string
	mailer.EXPECT().
		Send(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, _ *service.Mail) {
			requestID = deliverycontext.GetRequestIDFromContext(ctx)
		}).
		Return(nil)

	rec := servePush(h, pushBody(t, encodeEvent(t, verificationEvent()), nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-event", requestID)
}

func TestMailHandler_HandleMail_DeliveryFailures(t *testing.T) {
	tests := []struct {
		name     string
		sendErr  error
		wantCode int
	}{
		{
			name:     "transient mailer failure is retried",
			sendErr:  errors.New("connection reset"),
			wantCode: http.StatusServiceUnavailable,
		},
		{
			name:     "rejected mail is acked",
			sendErr:  errors.Wrap(service.ErrMailRejected, "550 mailbox unavailable"),
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mailer := newTestMailHandler(t)
			mailer.EXPECT().Send(mock.Anything, mock.Anything).Return(tt.sendErr)

			rec := servePush(h, pushBody(t, encodeEvent(t, verificationEvent()), nil))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestMailHandler_HandleMail_AcksUnprocessableEvents(t *testing.T) {
	unknown := verificationEvent()
	unknown.Type = "newsletter"

	missingToken := verificationEvent()
	missingToken.Token = ""

	expired := verificationEvent()
	expired.ExpiresAt = time.Now().Add(-time.Minute)

	tests := []struct {
		name string
		data string
	}{
		{name: "not base64", data: "%%%"},
		{name: "not an event", data: base64.StdEncoding.EncodeToString([]byte("[1,2"))},
		{name: "unknown type", data: encodeEvent(t, unknown)},
		{name: "missing token", data: encodeEvent(t, missingToken)},
		{name: "expired token", data: encodeEvent(t, expired)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No Send expectation: the mock fails the test if mail goes out.
			h, _ := newTestMailHandler(t)

			rec := servePush(h, pushBody(t, tt.data, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestMailHandler_HandleMail_MalformedEnvelope(t *testing.T) {
	h, _ := newTestMailHandler(t)

	rec := servePush(h, `{"message":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMailHandler_HandleMail_VerifiesPushToken(t *testing.T) {
	configure := func(cfg *config.Config) {
		cfg.Env.Env = constants.EnvProduction
		cfg.PubSub.Provider = constants.PubSubProviderGoogle
		cfg.PubSub.PushAudience = "https://worker.example.com/push"
	}

	t.Run("rejected token", func(t *testing.T) {
		h, _ := newTestMailHandler(t, configure)
		require.True(t, h.verifyPushAuth)

		var gotAudience string
		h.verifyToken = func(_ *http.Request, audience string) error {
			gotAudience = audience

			return errors.New("bad token")
		}

		rec := servePush(h, pushBody(t, encodeEvent(t, verificationEvent()), nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "https://worker.example.com/push", gotAudience)
	})

	t.Run("accepted token", func(t *testing.T) {
		h, mailer := newTestMailHandler(t, configure)
		h.verifyToken = func(*http.Request, string) error { return nil }
		mailer.EXPECT().Send(mock.Anything, mock.Anything).Return(nil)

		rec := servePush(h, pushBody(t, encodeEvent(t, verificationEvent()), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestVerifyPubSubToken_MissingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/push", nil)

	err := verifyPubSubToken(req, "")
	require.Error(t, err)

	req.Header.Set("Authorization", "Basic abc")
	err = verifyPubSubToken(req, "")
	assert.ErrorContains(t, err, "invalid authorization header format")
}

func TestNewMailHandler_SkipsVerificationInDevelop(t *testing.T) {
	h, _ := newTestMailHandler(t, func(cfg *config.Config) {
		cfg.Env.Env = constants.EnvDevelop
		cfg.PubSub.Provider = constants.PubSubProviderGoogle
	})

	assert.False(t, h.verifyPushAuth)
}
