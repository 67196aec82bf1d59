package repository

import (
	"context"
	"errors"

	"blogauth/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrTokenNotFound is returned when a verification or reset token does not exist.
var ErrTokenNotFound = errors.New("token not found")

// VerificationTokenRepository persists single-use email verification tokens.
type VerificationTokenRepository interface {
	Create(ctx context.Context, token *entity.VerificationToken) error

	// FindByToken returns the token row regardless of expiry.
	FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error)

	// Delete removes the row identified by (identifier, token) and returns
	// ErrTokenNotFound when no row was removed. Redemption relies on that to
	// stay single-use under concurrent requests.
	Delete(ctx context.Context, identifier uuid.UUID, token string) error
}

// PasswordResetTokenRepository persists single-use password reset tokens.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *entity.PasswordResetToken) error

	// FindByToken returns the token row regardless of expiry.
	FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)

	// DeleteByToken removes a single token and returns ErrTokenNotFound when
	// no row was removed.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteByUserID removes every token of a user and reports how many were removed.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
}
