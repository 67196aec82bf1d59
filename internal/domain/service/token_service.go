package service

import (
	"errors"
	"time"

	"blogauth/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSessionInvalid is returned for any session that fails integrity or expiry checks.
var ErrSessionInvalid = errors.New("session is invalid")

// TokenIssuer produces opaque single-use tokens. The tokens carry no claims
// and are only meaningful as store lookup keys.
type TokenIssuer interface {
	// Issue returns a URL-safe random token.
	Issue() (string, error)

	// IssueWithExpiry returns a token together with now + ttl.
	IssueWithExpiry(ttl time.Duration) (string, time.Time, error)
}

// SessionClaims is the signed identity bundle carried by a session cookie.
type SessionClaims struct {
	UserID    uuid.UUID
	Role      entity.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionSigner seals and opens SessionClaims.
type SessionSigner interface {
	// Sign seals claims into a compact string.
	Sign(claims SessionClaims) (string, error)

	// Parse verifies integrity and expiry. Every failure wraps ErrSessionInvalid.
	Parse(raw string) (*SessionClaims, error)
}
