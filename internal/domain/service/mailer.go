package service

import "context"

// Mailer defines the interface for sending the project's transactional mail.
// Implementations build the full clickable link from the frontend base URL
// and the raw token.
type Mailer interface {
	// SendEmailVerificationLink mails a verification link for the address.
	SendEmailVerificationLink(ctx context.Context, email, token string) error

	// SendPasswordResetLink mails a password reset link for the address.
	SendPasswordResetLink(ctx context.Context, email, token string) error
}
