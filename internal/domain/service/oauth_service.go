package service

import (
	"context"
	"time"

	"blogauth/internal/domain/entity"
)

// OAuthProfile is the identity an external provider reports after a
// successful authorization.
type OAuthProfile struct {
	Provider          string // Provider name, e.g. "github"
	ProviderAccountID string // Provider-side stable subject id
	Email             string // Address reported by the provider
	EmailVerified     bool   // Whether the provider claims to have verified Email
	Name              string // Display name
	AvatarURL         string // URL to the profile picture
}

// OAuthResult bundles the profile with the opaque provider tokens.
type OAuthResult struct {
	Profile     OAuthProfile
	AccountType string
	Tokens      entity.OAuthTokens
}

// OAuthProvider runs the authorization-code flow against one provider.
type OAuthProvider interface {
	// Name returns the provider name used in routes and LinkedAccount rows.
	Name() string

	// AuthCodeURL builds the consent URL for state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for tokens and the user's profile.
	Exchange(ctx context.Context, code string) (*OAuthResult, error)
}

// OAuthStateStore issues and redeems single-use CSRF state values for the
// authorization-code flow.
type OAuthStateStore interface {
	// Create stores callbackURL under a fresh state value and returns it.
	Create(ctx context.Context, provider, callbackURL string) (string, error)

	// Consume returns the callback URL stored for state and deletes it.
	// Unknown, expired or mismatched states return an error.
	Consume(ctx context.Context, provider, state string) (string, error)
}

// OAuthStateTTL bounds how long a user may take at the provider's consent page.
const OAuthStateTTL = 10 * time.Minute

// OAuthProviderRegistry looks up configured providers by name.
type OAuthProviderRegistry interface {
	// Provider returns the provider registered as name.
	Provider(name string) (OAuthProvider, bool)

	// Names lists the configured providers in a stable order.
	Names() []string
}
