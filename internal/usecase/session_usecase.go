package usecase

import (
	"context"
	"time"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"

	"github.com/google/uuid"
)

// Session is a signed session claim together with its compact form.
type Session struct {
	Token  string
	Claims service.SessionClaims
}

// UserID is shorthand for s.Claims.UserID.
func (s *Session) UserID() uuid.UUID {
	return s.Claims.UserID
}

// Role is shorthand for s.Claims.Role.
func (s *Session) Role() entity.Role {
	return s.Claims.Role
}

// ExpiresAt is shorthand for s.Claims.ExpiresAt.
func (s *Session) ExpiresAt() time.Time {
	return s.Claims.ExpiresAt
}

// SessionUsecase issues and maintains stateless sessions.
type SessionUsecase interface {
	// Issue signs a fresh session.
	Issue(ctx context.Context, userID uuid.UUID, role entity.Role) (*Session, error)

	// Validate opens raw. Every failure wraps service.ErrSessionInvalid.
	Validate(ctx context.Context, raw string) (*Session, error)

	// Refresh re-issues sess with the current role once it is older than the
	// update age. The bool reports whether a new session was issued.
	Refresh(ctx context.Context, sess *Session) (*Session, bool, error)
}
