// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"amora/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Domain-specific errors for token persistence.
var (
	// ErrRefreshTokenNotFound is returned when a user has no stored refresh token.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	// ErrActionTokenNotFound is returned when no verification or reset token exists for the lookup key.
	ErrActionTokenNotFound = errors.New("action token not found")
)

// RefreshTokenRepository manages the single active session per user.
// Upsert semantics keep at most one row per user, so issuing a new
// session or rotating an old one always invalidates the previous token.
type RefreshTokenRepository interface {
	// Upsert stores the token for the user, replacing any existing row.
	Upsert(ctx context.Context, token *entity.RefreshToken) error

	// FindByUserID retrieves the stored token for the user.
	// Returns ErrRefreshTokenNotFound when the user has no active session.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error)

	// DeleteByUserID removes the user's session row.
	// Deleting an absent row is not an error; sign-out is idempotent.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

// EmailVerificationTokenRepository manages single-use email verification tokens.
// At most one pending token exists per email.
type EmailVerificationTokenRepository interface {
	// Upsert stores the token for the email, replacing any pending one.
	Upsert(ctx context.Context, token *entity.EmailVerificationToken) error

	// FindByToken retrieves the record matching the raw token string.
	// Returns ErrActionTokenNotFound when no such token exists.
	FindByToken(ctx context.Context, token string) (*entity.EmailVerificationToken, error)

	// DeleteByToken removes the record matching the raw token string.
	// Returns ErrActionTokenNotFound when no row was deleted, so a racing
	// consumer that lost the delete cannot treat the token as consumed.
	DeleteByToken(ctx context.Context, token string) error
}

// PasswordResetTokenRepository manages single-use password reset tokens.
// Same lifecycle as EmailVerificationTokenRepository.
type PasswordResetTokenRepository interface {
	// Upsert stores the token for the email, replacing any pending one.
	Upsert(ctx context.Context, token *entity.PasswordResetToken) error

	// FindByToken retrieves the record matching the raw token string.
	// Returns ErrActionTokenNotFound when no such token exists.
	FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)

	// DeleteByToken removes the record matching the raw token string.
	// Returns ErrActionTokenNotFound when no row was deleted, so a racing
	// consumer that lost the delete cannot treat the token as consumed.
	DeleteByToken(ctx context.Context, token string) error
}
