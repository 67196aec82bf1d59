// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"blogauth/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists is returned when the normalized email is already taken.
	ErrUserAlreadyExists = errors.New("user with this email already exists")
)

// UserRepository defines the standard operations for user persistence.
// Emails passed in are expected to be normalized already.
type UserRepository interface {
	// FindByID retrieves a single user by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a single user by email without linked accounts.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByEmailWithAccounts is FindByEmail with LinkedAccounts populated.
	FindByEmailWithAccounts(ctx context.Context, email string) (*entity.User, error)

	// Create persists a new user. ID and timestamps are filled in on success.
	Create(ctx context.Context, user *entity.User) error

	// Update writes every mutable column of an existing user.
	Update(ctx context.Context, user *entity.User) error

	// UpdateRole changes only the role column.
	UpdateRole(ctx context.Context, id uuid.UUID, role entity.Role) error
}
