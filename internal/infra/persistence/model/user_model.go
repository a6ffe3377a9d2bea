// Package model holds the GORM persistence models mirroring the database tables.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	Name           string    `gorm:"type:varchar(100)"`
	HashedPassword string    `gorm:"type:varchar(255)"`
	EmailVerified  bool      `gorm:"not null;default:false"`
	OAuthID        string    `gorm:"type:varchar(255);index"`
	OAuthProvider  string    `gorm:"type:varchar(50)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	RefreshToken *RefreshTokenModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
