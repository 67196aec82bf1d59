package repository

import (
	"context"
	"errors"

	"blogauth/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrLinkedAccountNotFound is returned when no link exists for a provider account.
	ErrLinkedAccountNotFound = errors.New("linked account not found")
	// ErrLinkedAccountExists is returned when a provider account is already claimed.
	ErrLinkedAccountExists = errors.New("linked account already exists")
)

// LinkedAccountRepository persists bindings between users and external identities.
type LinkedAccountRepository interface {
	// FindByProviderAccount looks up the unique link for (provider, providerAccountID).
	FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*entity.LinkedAccount, error)

	// FindByUserID lists every link of a user, oldest first.
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.LinkedAccount, error)

	// Create persists a new link.
	Create(ctx context.Context, account *entity.LinkedAccount) error

	// UpdateTokens replaces the opaque provider tokens of a link.
	UpdateTokens(ctx context.Context, id uuid.UUID, tokens entity.OAuthTokens) error
}
