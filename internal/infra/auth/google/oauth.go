// Package google implements the OAuth authorization-code flow against Google.
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"amora/config"
	"amora/internal/domain/service"

	"github.com/pkg/errors"
)

const (
	googleOAuthURL    = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	providerName = "google"
)

// OAuthProvider handles Google OAuth infrastructure operations
type OAuthProvider struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string

	// Endpoint URLs are fields so tests can point them at a local server.
	authURL     string
	tokenURL    string
	userInfoURL string

	client *http.Client
}

// NewOAuthProvider creates a new Google OAuth provider
func NewOAuthProvider(cfg *config.Config) service.OAuthProvider {
	provider := &OAuthProvider{
		authURL:     googleOAuthURL,
		tokenURL:    googleTokenURL,
		userInfoURL: googleUserInfoURL,
		client:      &http.Client{},
	}

	if cfg.GoogleOAuth != nil {
		provider.clientID = cfg.GoogleOAuth.ClientID
		provider.clientSecret = cfg.GoogleOAuth.ClientSecret
		provider.redirectURI = cfg.GoogleOAuth.RedirectURI
		provider.scopes = cfg.GoogleOAuth.Scopes
	}

	if len(provider.scopes) == 0 {
		provider.scopes = []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		}
	}

	return provider
}

// BuildAuthorizationURL constructs the Google OAuth consent page URL
func (s *OAuthProvider) BuildAuthorizationURL() string {
	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("scope", strings.Join(s.scopes, " "))
	params.Set("response_type", "code")
	params.Set("access_type", "offline")

	return s.authURL + "?" + params.Encode()
}

// Provider returns the provider name stored alongside linked accounts
func (s *OAuthProvider) Provider() string {
	return providerName
}

// ExchangeCodeForToken exchanges an authorization code for an access token
func (s *OAuthProvider) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", s.clientID)
	data.Set("client_secret", s.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to exchange code for token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", errors.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}

	return tokenResponse.AccessToken, nil
}

// GetUserInfo retrieves user information using an access token
func (s *OAuthProvider) GetUserInfo(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		VerifiedEmail bool   `json:"verified_email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return &service.OAuthUser{
		ID:            googleUser.ID,
		Email:         googleUser.Email,
		Name:          googleUser.Name,
		EmailVerified: googleUser.VerifiedEmail,
		AvatarURL:     googleUser.Picture,
	}, nil
}
