// Package usecase contains the application-specific business rules.
package usecase

import "context"

// OAuthCallbackOutput returns the access token after a successful provider
// callback, same shape as a password sign-in.
type OAuthCallbackOutput struct {
	AccessToken string
}

// OAuthUsecase defines the interface for provider-backed sign-in.
type OAuthUsecase interface {
	// AuthorizationURL returns the provider consent page URL.
	AuthorizationURL() string

	// Callback finishes the authorization-code flow: exchanges the code,
	// fetches the profile, applies the account linking policy and issues a
	// session for the resulting user.
	Callback(ctx context.Context, code string, sink RefreshTokenSink) (*OAuthCallbackOutput, error)
}
