package service

import (
	"context"
	"errors"
	"time"
)

// ErrMailRejected is returned by a Mailer when retrying cannot help, such as
// a recipient the relay refuses.
var ErrMailRejected = errors.New("mail rejected")

// AuthMailType names the kind of mail an AuthMailEvent asks for.
type AuthMailType string

const (
	MailVerificationRequested  AuthMailType = "verification_requested"
	MailPasswordResetRequested AuthMailType = "password_reset_requested"
)

// AuthMailEvent asks the mail worker to deliver a token link to a user.
type AuthMailEvent struct {
	RequestID string       `json:"request_id,omitempty"` // For distributed tracing
	Type      AuthMailType `json:"type"`
	UserID    string       `json:"user_id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// EventPublisher hands auth mail events to a message queue for async delivery.
type EventPublisher interface {
	// PublishAuthMailEvent publishes one event.
	PublishAuthMailEvent(ctx context.Context, event *AuthMailEvent) error

	// Close releases any resources held by the publisher
	Close() error
}

// Mail is one outgoing message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers mail to an end user.
type Mailer interface {
	Send(ctx context.Context, mail *Mail) error
}
