package postgres

import (
	"context"

	"blogauth/internal/domain/entity"
	domainerrors "blogauth/internal/domain/errors"
	"blogauth/internal/domain/repository"
	"blogauth/internal/errors"
	"blogauth/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verificationTokenRepository struct {
	db *gorm.DB
}

// NewVerificationTokenRepository is the constructor for verificationTokenRepository.
func NewVerificationTokenRepository(db *gorm.DB) repository.VerificationTokenRepository {
	return &verificationTokenRepository{db: db}
}

func (repo *verificationTokenRepository) Create(ctx context.Context, token *entity.VerificationToken) error {
	tokenM := &model.VerificationTokenModel{
		Identifier: token.Identifier,
		Token:      token.Token,
		Expires:    token.ExpiresAt,
	}

	if err := repo.db.WithContext(ctx).Create(tokenM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create verification token")
	}

	return nil
}

func (repo *verificationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.VerificationToken, error) {
	var tokenM model.VerificationTokenModel
	if err := repo.db.WithContext(ctx).Where("token = ?", token).First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find verification token")
	}

	return &entity.VerificationToken{
		Identifier: tokenM.Identifier,
		Token:      tokenM.Token,
		ExpiresAt:  tokenM.Expires,
	}, nil
}

func (repo *verificationTokenRepository) Delete(ctx context.Context, identifier uuid.UUID, token string) error {
	result := repo.db.WithContext(ctx).
		Where("identifier = ? AND token = ?", identifier, token).
		Delete(&model.VerificationTokenModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete verification token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

type passwordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository is the constructor for passwordResetTokenRepository.
func NewPasswordResetTokenRepository(db *gorm.DB) repository.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

func (repo *passwordResetTokenRepository) Create(ctx context.Context, token *entity.PasswordResetToken) error {
	tokenM := &model.PasswordResetTokenModel{
		ID:        token.ID,
		Token:     token.Token,
		UserID:    token.UserID,
		ExpiresAt: token.ExpiresAt,
	}

	if err := repo.db.WithContext(ctx).Omit("User").Create(tokenM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrUserNotFound, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create password reset token")
	}

	token.ID = tokenM.ID
	token.CreatedAt = tokenM.CreatedAt

	return nil
}

func (repo *passwordResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var tokenM model.PasswordResetTokenModel
	if err := repo.db.WithContext(ctx).Where("token = ?", token).First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find password reset token")
	}

	return &entity.PasswordResetToken{
		ID:        tokenM.ID,
		Token:     tokenM.Token,
		UserID:    tokenM.UserID,
		ExpiresAt: tokenM.ExpiresAt,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

func (repo *passwordResetTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.PasswordResetTokenModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete password reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

func (repo *passwordResetTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.PasswordResetTokenModel{})
	if result.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete password reset tokens")
	}

	return result.RowsAffected, nil
}
