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

// linkedAccountRepository implements the domain.LinkedAccountRepository interface.
type linkedAccountRepository struct {
	db *gorm.DB
}

// NewLinkedAccountRepository is the constructor for linkedAccountRepository.
func NewLinkedAccountRepository(db *gorm.DB) repository.LinkedAccountRepository {
	return &linkedAccountRepository{db: db}
}

// FindByProviderAccount retrieves the link for a provider and its account id.
func (repo *linkedAccountRepository) FindByProviderAccount(ctx context.Context, provider, providerAccountID string) (*entity.LinkedAccount, error) {
	var accountM model.LinkedAccountModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLinkedAccountNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find linked account")
	}

	return toLinkedAccountDomain(&accountM), nil
}

// FindByUserID returns every link of a user, oldest first.
func (repo *linkedAccountRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.LinkedAccount, error) {
	var accountModels []model.LinkedAccountModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accountModels).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list linked accounts")
	}

	accounts := make([]*entity.LinkedAccount, 0, len(accountModels))
	for i := range accountModels {
		accounts = append(accounts, toLinkedAccountDomain(&accountModels[i]))
	}

	return accounts, nil
}

// Create persists a new link.
func (repo *linkedAccountRepository) Create(ctx context.Context, account *entity.LinkedAccount) error {
	accountM := fromLinkedAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return errors.Wrapf(repository.ErrLinkedAccountExists, "%s/%s", account.Provider, account.ProviderAccountID)
		}
		if isForeignKeyConstraintViolation(err) {
			return errors.Wrap(repository.ErrUserNotFound, "invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create linked account")
	}

	// Update the entity with generated values
	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// UpdateTokens replaces the stored provider tokens.
func (repo *linkedAccountRepository) UpdateTokens(ctx context.Context, id uuid.UUID, tokens entity.OAuthTokens) error {
	result := repo.db.WithContext(ctx).
		Model(&model.LinkedAccountModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"access_token":  entity.StringPtr(tokens.AccessToken),
			"refresh_token": entity.StringPtr(tokens.RefreshToken),
			"id_token":      entity.StringPtr(tokens.IDToken),
			"token_type":    entity.StringPtr(tokens.TokenType),
			"scope":         entity.StringPtr(tokens.Scope),
			"expires_at":    tokens.ExpiresAt,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update linked account tokens")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLinkedAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---

// toLinkedAccountDomain converts a GORM LinkedAccountModel to a domain LinkedAccount entity.
func toLinkedAccountDomain(data *model.LinkedAccountModel) *entity.LinkedAccount {
	if data == nil {
		return nil
	}

	return &entity.LinkedAccount{
		ID:                data.ID,
		UserID:            data.UserID,
		Type:              data.Type,
		Provider:          data.Provider,
		ProviderAccountID: data.ProviderAccountID,
		Tokens: entity.OAuthTokens{
			AccessToken:  entity.StringValue(data.AccessToken),
			RefreshToken: entity.StringValue(data.RefreshToken),
			IDToken:      entity.StringValue(data.IDToken),
			TokenType:    entity.StringValue(data.TokenType),
			Scope:        entity.StringValue(data.Scope),
			ExpiresAt:    data.ExpiresAt,
		},
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromLinkedAccountDomain converts a domain LinkedAccount entity to a GORM LinkedAccountModel.
func fromLinkedAccountDomain(data *entity.LinkedAccount) *model.LinkedAccountModel {
	if data == nil {
		return nil
	}

	return &model.LinkedAccountModel{
		ID:                data.ID,
		UserID:            data.UserID,
		Type:              data.Type,
		Provider:          data.Provider,
		ProviderAccountID: data.ProviderAccountID,
		AccessToken:       entity.StringPtr(data.Tokens.AccessToken),
		RefreshToken:      entity.StringPtr(data.Tokens.RefreshToken),
		IDToken:           entity.StringPtr(data.Tokens.IDToken),
		TokenType:         entity.StringPtr(data.Tokens.TokenType),
		Scope:             entity.StringPtr(data.Tokens.Scope),
		ExpiresAt:         data.Tokens.ExpiresAt,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}
