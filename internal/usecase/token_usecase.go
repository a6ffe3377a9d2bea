// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"
)

// RefreshTokenSink receives the refresh token side effects of session
// operations. The delivery layer implements it over the HTTP response
// cookie, keeping transport concerns out of the use cases.
type RefreshTokenSink interface {
	// SetRefreshToken stores the raw refresh token on the client.
	SetRefreshToken(token string)

	// ClearRefreshToken removes any stored refresh token from the client.
	ClearRefreshToken()

	// RefreshToken returns the token currently presented by the client,
	// or an empty string when none was sent.
	RefreshToken() string
}

// TokenUsecase defines the interface for session and single-use token
// management.
type TokenUsecase interface {
	// IssueSession signs a fresh access/refresh pair for the user, stores
	// the refresh token as the user's only active session and pushes it to
	// the sink. Returns the access token.
	IssueSession(ctx context.Context, userID uuid.UUID, sink RefreshTokenSink) (string, error)

	// RevokeSession deletes the user's active session and clears the sink.
	// Revoking a user with no session is not an error.
	RevokeSession(ctx context.Context, userID uuid.UUID, sink RefreshTokenSink) error

	// RotateSession validates the presented refresh token against the
	// stored one and, on match, issues a new pair. Any failure clears the
	// sink before the error is returned, so a rejected client is also a
	// logged-out client.
	RotateSession(ctx context.Context, presented string, sink RefreshTokenSink) (string, error)

	// IssueEmailVerificationToken signs and stores a single-use
	// verification token for the email, replacing any pending one.
	IssueEmailVerificationToken(ctx context.Context, email string) (string, error)

	// ConsumeEmailVerificationToken validates and burns a verification
	// token, returning the email it was issued for. The stored row is
	// deleted even when validation fails.
	ConsumeEmailVerificationToken(ctx context.Context, token string) (string, error)

	// IssuePasswordResetToken signs and stores a single-use reset token
	// for the email, replacing any pending one.
	IssuePasswordResetToken(ctx context.Context, email string) (string, error)

	// ConsumePasswordResetToken validates and burns a reset token,
	// returning the email it was issued for. Same single-use semantics as
	// ConsumeEmailVerificationToken.
	ConsumePasswordResetToken(ctx context.Context, token string) (string, error)
}
