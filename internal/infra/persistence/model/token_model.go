package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. The user ID is the
// primary key, so the table physically enforces one active session per user.
type RefreshTokenModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Token     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

// EmailVerificationTokenModel mirrors the 'email_verification_tokens' table.
// The email is the primary key so at most one token is pending per address;
// the token column is indexed for the consume-side lookup.
type EmailVerificationTokenModel struct {
	Email     string `gorm:"type:varchar(255);primaryKey"`
	Token     string `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (EmailVerificationTokenModel) TableName() string {
	return "email_verification_tokens"
}

// PasswordResetTokenModel mirrors the 'password_reset_tokens' table.
// Same shape and lifecycle as EmailVerificationTokenModel.
type PasswordResetTokenModel struct {
	Email     string `gorm:"type:varchar(255);primaryKey"`
	Token     string `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}
