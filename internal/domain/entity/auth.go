package entity

import (
	"time"

	"github.com/google/uuid"
)

// Known external identity providers.
const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

// LinkedAccount binds a User to one account at an external identity provider.
// (Provider, ProviderAccountID) is globally unique.
type LinkedAccount struct {
	ID                uuid.UUID   // Unique identifier for this link.
	UserID            uuid.UUID   // Owning user.
	Type              string      // Account type reported by the provider flow, e.g. "oauth" or "oidc".
	Provider          string      // Provider name such as "github".
	ProviderAccountID string      // The provider's stable subject identifier.
	Tokens            OAuthTokens // Opaque pass-through, never validated here.
	CreatedAt         time.Time   // When the link was first created.
	UpdatedAt         time.Time   // When the tokens were last refreshed.
}

// OAuthTokens holds the provider tokens stored alongside a LinkedAccount.
type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	TokenType    string
	Scope        string
	ExpiresAt    *time.Time
}

// VerificationToken proves control of the owning user's email address.
// It is single use.
type VerificationToken struct {
	Identifier uuid.UUID // Owning user id.
	Token      string    // Opaque lookup key.
	ExpiresAt  time.Time
}

// IsExpired reports whether the token is no longer usable at now.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// PasswordResetToken authorizes one password change for its user.
// At most one should exist per user.
type PasswordResetToken struct {
	ID        uuid.UUID
	Token     string
	UserID    uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is no longer usable at now.
func (t *PasswordResetToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
