// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"time"

	"blogauth/internal/domain/entity"
	"blogauth/internal/domain/service"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignupInput defines the data required to create a password account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// ResetPasswordInput carries a reset token and the replacement password.
type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

// --- Output DTOs ---

// UserSummary is the client-safe view of a user.
type UserSummary struct {
	ID        uuid.UUID
	Email     string
	Name      string
	AvatarURL *string
	Role      entity.Role
}

// NewUserSummary projects a user onto its summary.
func NewUserSummary(user *entity.User) *UserSummary {
	return &UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
	}
}

// SignupOutput returns the new user and its email verification token.
type SignupOutput struct {
	User                *UserSummary
	VerificationToken   string
	VerificationExpires time.Time
}

// OAuthIdentityOutput identifies the user an OAuth callback resolved to.
type OAuthIdentityOutput struct {
	UserID      uuid.UUID
	Role        entity.Role
	UserCreated bool
	LinkCreated bool
}

// IdentityUsecase maps credentials and external identities onto users.
type IdentityUsecase interface {
	// AuthenticateWithPassword checks a credential sign-in.
	AuthenticateWithPassword(ctx context.Context, email, password string) (*UserSummary, error)

	// ResolveOAuthIdentity finds or creates the user behind a provider account.
	ResolveOAuthIdentity(ctx context.Context, result *service.OAuthResult) (*OAuthIdentityOutput, error)

	// CreateAccount registers an unverified password account.
	CreateAccount(ctx context.Context, input SignupInput) (*SignupOutput, error)

	// ConsumeVerificationToken marks the owner's email verified and burns the token.
	ConsumeVerificationToken(ctx context.Context, token string) (uuid.UUID, error)

	// RequestPasswordReset issues a reset token when the account allows it.
	// It reports nothing about whether the account exists.
	RequestPasswordReset(ctx context.Context, email string) error

	// ResetPassword replaces the password of the token's owner.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error

	// SetRole changes the role of the user with email.
	SetRole(ctx context.Context, email string, role entity.Role) (*UserSummary, error)

	// GetUser loads a user summary by id.
	GetUser(ctx context.Context, id uuid.UUID) (*UserSummary, error)
}
