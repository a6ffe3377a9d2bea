// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"amora/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// SignUpInput defines the data required to register a new account.
type SignUpInput struct {
	Name           string
	Email          string
	Password       string
	PasswordRepeat string
}

// SignInInput defines the data required for a user to sign in.
type SignInInput struct {
	Email    string
	Password string
}

// ChangePasswordInput defines the data required to change a password.
type ChangePasswordInput struct {
	OldPassword       string
	NewPassword       string
	NewPasswordRepeat string
}

// ResetPasswordInput defines the data required to finish a password reset.
type ResetPasswordInput struct {
	Token             string
	NewPassword       string
	NewPasswordRepeat string
}

// --- Output DTOs ---

// SignUpOutput returns the newly created account's public projection.
type SignUpOutput struct {
	User *entity.PublicUser
}

// SignInOutput returns the access token after a successful sign-in.
// The refresh token travels through the RefreshTokenSink only.
type SignInOutput struct {
	AccessToken string
}

// AuthUsecase defines the interface for account and credential operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignUpOutput, error)
	SignIn(ctx context.Context, input SignInInput, sink RefreshTokenSink) (*SignInOutput, error)
	SignOut(ctx context.Context, userID uuid.UUID, sink RefreshTokenSink) error

	VerifyEmail(ctx context.Context, token string) error
	ChangeEmail(ctx context.Context, userID uuid.UUID, newEmail string) error

	ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
}
