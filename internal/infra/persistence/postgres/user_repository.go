// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"blogauth/internal/domain/entity"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/repository"
	"blogauth/internal/errors"
	"blogauth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return repo.first(ctx, repo.db.WithContext(ctx).Where("id = ?", id), "failed to find user by id")
}

// FindByEmail retrieves a single user by their normalized email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.first(ctx, repo.db.WithContext(ctx).Where("email = ?", email), "failed to find user by email")
}

// FindByEmailWithAccounts also preloads the user's linked accounts, oldest first.
func (repo *userRepository) FindByEmailWithAccounts(ctx context.Context, email string) (*entity.User, error) {
	query := repo.db.WithContext(ctx).
		Preload("LinkedAccounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("email = ?", email)

	return repo.first(ctx, query, "failed to find user with accounts by email")
}

func (repo *userRepository) first(_ context.Context, query *gorm.DB, details string) (*entity.User, error) {
	var userM model.UserModel
	if err := query.First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, details)
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// Create persists a new user. The database assigns the id when it is unset.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Omit("LinkedAccounts").Create(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return errors.Wrap(repository.ErrUserAlreadyExists, user.Email)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update writes every mutable column. Zero values such as a nil password hash are written too.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	userM.UpdatedAt = time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", user.ID).
		Select("email", "name", "password_hash", "role", "image", "bio", "email_verified_at", "updated_at").
		Updates(userM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return errors.Wrap(repository.ErrUserAlreadyExists, user.Email)
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// UpdateRole changes only the role column.
func (repo *userRepository) UpdateRole(ctx context.Context, id uuid.UUID, role entity.Role) error {
	result := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("id = ?", id).
		Update("role", role.String())
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update user role")
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	user := &entity.User{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		PasswordHash:    data.PasswordHash,
		Role:            entity.Role(data.Role),
		AvatarURL:       data.Image,
		Bio:             data.Bio,
		EmailVerifiedAt: data.EmailVerifiedAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}

	if len(data.LinkedAccounts) > 0 {
		user.LinkedAccounts = make([]*entity.LinkedAccount, 0, len(data.LinkedAccounts))
		for i := range data.LinkedAccounts {
			user.LinkedAccounts = append(user.LinkedAccounts, toLinkedAccountDomain(&data.LinkedAccounts[i]))
		}
	}

	return user
}

// fromUserDomain converts a domain User entity to a GORM UserModel.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	role := data.Role
	if role == "" {
		role = entity.RoleReader
	}

	return &model.UserModel{
		ID:              data.ID,
		Email:           data.Email,
		Name:            data.Name,
		PasswordHash:    data.PasswordHash,
		Role:            role.String(),
		Image:           data.AvatarURL,
		Bio:             data.Bio,
		EmailVerifiedAt: data.EmailVerifiedAt,
		CreatedAt:       data.CreatedAt,
		UpdatedAt:       data.UpdatedAt,
	}
}
