package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via gen_random_uuid().
type UserModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email           string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name            string    `gorm:"type:varchar(100);not null"`
	PasswordHash    *string   `gorm:"type:varchar(255)"`
	Role            string    `gorm:"type:varchar(16);not null;default:READER"`
	Image           *string   `gorm:"type:text"`
	Bio             *string   `gorm:"type:text"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	LinkedAccounts []LinkedAccountModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
