package model

import (
	"time"

	"github.com/google/uuid"
)

// LinkedAccountModel mirrors the 'accounts' table. (provider, provider_account_id) is unique.
type LinkedAccountModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Type              string    `gorm:"type:varchar(32);not null"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_provider_account"`
	ProviderAccountID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_provider_account"`
	AccessToken       *string   `gorm:"type:text"`
	RefreshToken      *string   `gorm:"type:text"`
	IDToken           *string   `gorm:"type:text"`
	TokenType         *string   `gorm:"type:varchar(32)"`
	Scope             *string   `gorm:"type:text"`
	ExpiresAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (LinkedAccountModel) TableName() string {
	return "accounts"
}

// VerificationTokenModel mirrors the 'verification_tokens' table.
type VerificationTokenModel struct {
	Identifier uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_verification_identifier_token"`
	Token      string    `gorm:"type:varchar(255);primaryKey"`
	Expires    time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (VerificationTokenModel) TableName() string {
	return "verification_tokens"
}

// PasswordResetTokenModel mirrors the 'password_reset_tokens' table.
type PasswordResetTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
