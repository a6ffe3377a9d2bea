package service

import (
	"time"

	"github.com/google/uuid"
)

// UserClaims carries the subject of an access or refresh token.
type UserClaims struct {
	UserID uuid.UUID
}

// EmailClaims carries the subject of a single-use action token. Verification
// and reset tokens identify their target by email, not user ID, so a pending
// token survives nothing but the exact address it was issued for.
type EmailClaims struct {
	Email string
}

// TokenSigner defines the interface for creating and validating the four JWT
// classes the project issues. Each class embeds a type claim, so a token of
// one class never verifies as another even when both share a signing secret.
type TokenSigner interface {
	// SignAccessToken creates a short-lived access token for a user.
	SignAccessToken(userID uuid.UUID) (string, error)

	// SignRefreshToken creates a long-lived refresh token for a user,
	// signed with a secret distinct from the access token's.
	SignRefreshToken(userID uuid.UUID) (string, error)

	// SignEmailVerificationToken creates a single-use token proving
	// control of the given email address.
	SignEmailVerificationToken(email string) (string, error)

	// SignPasswordResetToken creates a single-use token authorizing one
	// password overwrite for the account owning the email.
	SignPasswordResetToken(email string) (string, error)

	// VerifyAccessToken validates an access token's signature, expiry and
	// type claim, and returns the subject.
	VerifyAccessToken(token string) (*UserClaims, error)

	// VerifyRefreshToken validates a refresh token the same way.
	VerifyRefreshToken(token string) (*UserClaims, error)

	// VerifyEmailVerificationToken validates an email verification token
	// and returns the email it was issued for.
	VerifyEmailVerificationToken(token string) (*EmailClaims, error)

	// VerifyPasswordResetToken validates a password reset token and
	// returns the email it was issued for.
	VerifyPasswordResetToken(token string) (*EmailClaims, error)

	// RefreshTokenTTL returns the configured lifetime of refresh tokens.
	// The session cookie's MaxAge follows it.
	RefreshTokenTTL() time.Duration
}
