// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the single long-lived session credential for a user.
// Exactly one row exists per user; every login and rotation overwrites it,
// so presenting any other token string is rejected even if its signature
// is still valid.
type RefreshToken struct {
	UserID    uuid.UUID // Owner of the session; also the storage key.
	Token     string    // The raw signed refresh token currently accepted.
	UpdatedAt time.Time // When the token was last issued or rotated.
}

// EmailVerificationToken is a single-use credential proving control over an
// email address. One row per email; consumed (deleted) on any verification
// attempt, successful or not.
type EmailVerificationToken struct {
	Email     string    // The address being verified; also the storage key.
	Token     string    // The raw signed action token.
	CreatedAt time.Time // When the token was issued.
}

// PasswordResetToken authorizes one password overwrite for the account owning
// the email. Same lifecycle as EmailVerificationToken.
type PasswordResetToken struct {
	Email     string
	Token     string
	CreatedAt time.Time
}
