// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account record. An account carries at least one login
// method: a bcrypt password hash, a linked OAuth identity, or both.
type User struct {
	ID             uuid.UUID // The unique identifier for the account.
	Email          string    // The login identifier; unique across all accounts.
	Name           string    // The user's display name.
	HashedPassword string    // bcrypt hash of the password; empty for OAuth-only accounts.
	EmailVerified  bool      // Whether the user has clicked a verification link for the current email.
	OAuthID        string    // The provider-specific subject id (e.g. Google's 'sub'); empty when not linked.
	OAuthProvider  string    // The provider name the OAuthID belongs to; set together with OAuthID.
	CreatedAt      time.Time // Timestamp of when this account was created.
	UpdatedAt      time.Time // Timestamp of the last modification to this account.
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.HashedPassword != ""
}

// IsOAuthLinked reports whether the account is linked to an OAuth identity.
func (u *User) IsOAuthLinked() bool {
	return u.OAuthID != ""
}

// PublicUser is the projection of a User that is safe to return to clients.
// The password hash and token material are never part of it.
type PublicUser struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	EmailVerified bool      `json:"emailVerified"`
	OAuthProvider string    `json:"oauthProvider,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		EmailVerified: u.EmailVerified,
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt,
	}
}
