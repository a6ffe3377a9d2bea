package service

import (
	"context"
	"time"
)

// AuthEvent represents an account lifecycle event published for async consumers
// such as audit pipelines or welcome-mail workers.
type AuthEvent struct {
	RequestID  string    `json:"request_id,omitempty"` // For distributed tracing
	Type       string    `json:"type"`                 // e.g. "user.signed_up", "user.password_reset"
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Auth event types.
const (
	EventUserSignedUp      = "user.signed_up"
	EventUserSignedIn      = "user.signed_in"
	EventUserSignedOut     = "user.signed_out"
	EventEmailVerified     = "user.email_verified"
	EventEmailChanged      = "user.email_changed"
	EventPasswordChanged   = "user.password_changed"
	EventPasswordReset     = "user.password_reset"
	EventOAuthLinked       = "user.oauth_linked"
	EventSessionRevoked    = "user.session_revoked"
)

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAuthEvent publishes an account lifecycle event for async processing
	PublishAuthEvent(ctx context.Context, event *AuthEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
