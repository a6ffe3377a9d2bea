package service

import "context"

// OAuthUser represents user information fetched from an OAuth provider.
type OAuthUser struct {
	ID            string // Provider-specific user ID (e.g., Google's 'sub' claim)
	Email         string // User's email address
	Name          string // User's display name
	EmailVerified bool   // Whether the email is verified by the provider
	AvatarURL     string // URL to user's profile picture
}

// OAuthProvider defines the interface for the authorization-code flow against
// an external identity provider.
type OAuthProvider interface {
	// BuildAuthorizationURL returns the provider consent page URL the
	// client should be redirected to.
	BuildAuthorizationURL() string

	// ExchangeCodeForToken trades an authorization code for an access token.
	ExchangeCodeForToken(ctx context.Context, code string) (string, error)

	// GetUserInfo fetches the user's profile with the provider access token.
	GetUserInfo(ctx context.Context, accessToken string) (*OAuthUser, error)

	// Provider returns the provider name stored alongside linked accounts.
	Provider() string
}
