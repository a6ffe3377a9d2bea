// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"amora/config"
	"amora/internal/domain/service"
)

// Default lifetimes per token class, used when config leaves them zero.
const (
	defaultAccessTTL            = time.Minute * 15
	defaultRefreshTTL           = time.Hour * 24 * 7
	defaultEmailVerificationTTL = time.Hour * 24
	defaultPasswordResetTTL     = time.Hour
)

// Type claim values. A token of one class never verifies as another.
const (
	tokenTypeAccess            = "access"
	tokenTypeRefresh           = "refresh"
	tokenTypeEmailVerification = "verify_email"
	tokenTypePasswordReset     = "reset_password"
)

// jwtSigner is a concrete implementation of the TokenSigner interface using the JWT standard.
// Access and action tokens share the primary secret; refresh tokens use a
// separate one, so a leaked refresh secret alone cannot mint access tokens.
type jwtSigner struct {
	accessSecret         string
	refreshSecret        string
	accessTTL            time.Duration
	refreshTTL           time.Duration
	emailVerificationTTL time.Duration
	passwordResetTTL     time.Duration
}

// NewJWTSigner is the constructor for jwtSigner.
// It takes configuration values to create a new token signer instance.
func NewJWTSigner(cfg *config.Config) (service.TokenSigner, error) {
	if cfg.SecretKey.Access == "" || cfg.SecretKey.Refresh == "" {
		return nil, errors.New("jwt secrets must be provided")
	}

	signer := &jwtSigner{
		accessSecret:         cfg.SecretKey.Access,
		refreshSecret:        cfg.SecretKey.Refresh,
		accessTTL:            defaultAccessTTL,
		refreshTTL:           defaultRefreshTTL,
		emailVerificationTTL: defaultEmailVerificationTTL,
		passwordResetTTL:     defaultPasswordResetTTL,
	}

	if cfg.Token != nil {
		if cfg.Token.AccessTTL > 0 {
			signer.accessTTL = cfg.Token.AccessTTL
		}
		if cfg.Token.RefreshTTL > 0 {
			signer.refreshTTL = cfg.Token.RefreshTTL
		}
		if cfg.Token.EmailVerificationTTL > 0 {
			signer.emailVerificationTTL = cfg.Token.EmailVerificationTTL
		}
		if cfg.Token.PasswordResetTTL > 0 {
			signer.passwordResetTTL = cfg.Token.PasswordResetTTL
		}
	}

	return signer, nil
}

// SignAccessToken creates a short-lived access token for the user.
func (s *jwtSigner) SignAccessToken(userID uuid.UUID) (string, error) {
	return s.signUserToken(userID, s.accessTTL, s.accessSecret, tokenTypeAccess)
}

// SignRefreshToken creates a long-lived refresh token for the user.
func (s *jwtSigner) SignRefreshToken(userID uuid.UUID) (string, error) {
	return s.signUserToken(userID, s.refreshTTL, s.refreshSecret, tokenTypeRefresh)
}

// SignEmailVerificationToken creates a single-use token bound to the email.
func (s *jwtSigner) SignEmailVerificationToken(email string) (string, error) {
	return s.signEmailToken(email, s.emailVerificationTTL, s.accessSecret, tokenTypeEmailVerification)
}

// SignPasswordResetToken creates a single-use token bound to the email.
func (s *jwtSigner) SignPasswordResetToken(email string) (string, error) {
	return s.signEmailToken(email, s.passwordResetTTL, s.accessSecret, tokenTypePasswordReset)
}

// VerifyAccessToken validates the token and returns its subject.
func (s *jwtSigner) VerifyAccessToken(token string) (*service.UserClaims, error) {
	return s.verifyUserToken(token, s.accessSecret, tokenTypeAccess)
}

// VerifyRefreshToken validates the token and returns its subject.
func (s *jwtSigner) VerifyRefreshToken(token string) (*service.UserClaims, error) {
	return s.verifyUserToken(token, s.refreshSecret, tokenTypeRefresh)
}

// VerifyEmailVerificationToken validates the token and returns its email.
func (s *jwtSigner) VerifyEmailVerificationToken(token string) (*service.EmailClaims, error) {
	return s.verifyEmailToken(token, s.accessSecret, tokenTypeEmailVerification)
}

// VerifyPasswordResetToken validates the token and returns its email.
func (s *jwtSigner) VerifyPasswordResetToken(token string) (*service.EmailClaims, error) {
	return s.verifyEmailToken(token, s.accessSecret, tokenTypePasswordReset)
}

// RefreshTokenTTL returns the configured duration for refresh tokens.
func (s *jwtSigner) RefreshTokenTTL() time.Duration {
	return s.refreshTTL
}

// signUserToken creates a JWT whose subject is a user ID.
func (s *jwtSigner) signUserToken(userID uuid.UUID, ttl time.Duration, secret, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),            // Subject (who the token is for)
		"iat":  time.Now().Unix(),          // Issued At
		"exp":  time.Now().Add(ttl).Unix(), // Expiration Time
		"type": tokenType,                  // Token class
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// signEmailToken creates a JWT whose subject is an email address.
func (s *jwtSigner) signEmailToken(email string, ttl time.Duration, secret, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
		"type":  tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

func (s *jwtSigner) verifyUserToken(tokenString, secret, wantType string) (*service.UserClaims, error) {
	claims, err := s.parse(tokenString, secret, wantType)
	if err != nil {
		return nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("token has no subject claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("token subject is not a valid user id")
	}

	return &service.UserClaims{UserID: userID}, nil
}

func (s *jwtSigner) verifyEmailToken(tokenString, secret, wantType string) (*service.EmailClaims, error) {
	claims, err := s.parse(tokenString, secret, wantType)
	if err != nil {
		return nil, err
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, errors.New("token has no email claim")
	}

	return &service.EmailClaims{Email: email}, nil
}

// parse validates signature, expiry and the type claim.
func (s *jwtSigner) parse(tokenString, secret, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("token claims are invalid")
	}

	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, errors.New("unexpected token type")
	}

	return claims, nil
}
