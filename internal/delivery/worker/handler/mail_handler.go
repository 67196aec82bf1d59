package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"blogauth/config"
	deliverycontext "blogauth/internal/delivery/context"
	"blogauth/internal/domain/constants"
	"blogauth/internal/domain/service"
	"blogauth/internal/errors"
	"blogauth/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// MailHandler receives auth mail events pushed by Pub/Sub and sends them.
//
// Status codes drive redelivery: 503 asks Pub/Sub to retry, 200 acks the
// message. Malformed payloads and permanent mail failures are acked so they
// are not redelivered forever.
type MailHandler struct {
	verifyPushAuth bool
	audience       string
	logger         *slog.Logger
	mailUC         usecase.MailDispatchUsecase
	verifyToken    func(req *http.Request, audience string) error
}

// MailHandlerParams holds dependencies for the MailHandler
type MailHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	MailUC usecase.MailDispatchUsecase
}

// NewMailHandler creates a new Pub/Sub push handler for auth mail
func NewMailHandler(params MailHandlerParams) *MailHandler {
	// Push requests are only signed by Google outside local development
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	audience := ""
	if params.Config.PubSub != nil {
		audience = params.Config.PubSub.PushAudience
	}

	return &MailHandler{
		verifyPushAuth: verifyPushAuth,
		audience:       audience,
		logger:         params.Logger,
		mailUC:         params.MailUC,
		verifyToken:    verifyPubSubToken,
	}
}

// HandleMail handles one pushed auth mail event
func (h *MailHandler) HandleMail(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := h.verifyToken(c.Request(), h.audience); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	event, err := decodeMailEvent(&pushMsg)
	if err != nil {
		// Redelivering an undecodable event cannot succeed.
		h.logger.Error("[Worker] Dropping undecodable auth mail event",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusOK)
	}

	requestID := h.extractRequestID(ctx, &pushMsg, event)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Processing auth mail event",
		slog.String("message_id", pushMsg.Message.MessageID),
		slog.String("type", string(event.Type)),
		slog.String("user_id", event.UserID),
	)

	if err := h.mailUC.Dispatch(ctx, event); err != nil {
		retryable := !isPermanent(err)
		reqLogger.Error("[Worker] Failed to dispatch auth mail",
			slog.String("type", string(event.Type)),
			slog.String("user_id", event.UserID),
			slog.Bool("retryable", retryable),
			slog.Any("error", err),
		)
		if retryable {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	return c.NoContent(http.StatusOK)
}

func decodeMailEvent(pushMsg *PubSubMessage) (*service.AuthMailEvent, error) {
	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode message data")
	}

	var event service.AuthMailEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "failed to parse auth mail event")
	}

	return &event, nil
}

func isPermanent(err error) bool {
	return errors.IsAny(err, usecase.ErrUnknownMailType, usecase.ErrInvalidMailEvent, service.ErrMailRejected)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *MailHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.AuthMailEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	// Set by RequestIDMiddleware from the X-Request-Id header
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests.
// When audience is empty the URL of this endpoint is expected.
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request, audience string) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	if audience == "" {
		scheme := "https"
		if req.TLS == nil {
			scheme = "http"
		}
		audience = fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)
	}

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
