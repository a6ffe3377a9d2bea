package auth

import (
	"testing"
	"time"

	"amora/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTSigner_SignAndVerifyUserTokens(t *testing.T) {
	signer, err := NewJWTSigner(testConfig())
	assert.NoError(t, err)
	assert.NotNil(t, signer)

	userID := uuid.New()

	accessToken, err := signer.SignAccessToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	refreshToken, err := signer.SignRefreshToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := signer.VerifyAccessToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, accessClaims.UserID)

	refreshClaims, err := signer.VerifyRefreshToken(refreshToken)
	assert.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
}

func TestJWTSigner_TokenClassesDoNotCrossVerify(t *testing.T) {
	signer, err := NewJWTSigner(testConfig())
	assert.NoError(t, err)

	userID := uuid.New()

	accessToken, err := signer.SignAccessToken(userID)
	assert.NoError(t, err)

	refreshToken, err := signer.SignRefreshToken(userID)
	assert.NoError(t, err)

	// An access token is signed with a different secret than refresh tokens.
	claims, err := signer.VerifyRefreshToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = signer.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	// Action tokens share the access secret, so the type claim is
	// the only thing keeping them apart. It must be enough.
	verifyToken, err := signer.SignEmailVerificationToken("user@example.com")
	assert.NoError(t, err)

	claims, err = signer.VerifyAccessToken(verifyToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	emailClaims, err := signer.VerifyPasswordResetToken(verifyToken)
	assert.Error(t, err)
	assert.Nil(t, emailClaims)
}

func TestJWTSigner_SignAndVerifyEmailTokens(t *testing.T) {
	signer, err := NewJWTSigner(testConfig())
	assert.NoError(t, err)

	verifyToken, err := signer.SignEmailVerificationToken("user@example.com")
	assert.NoError(t, err)

	resetToken, err := signer.SignPasswordResetToken("user@example.com")
	assert.NoError(t, err)

	verifyClaims, err := signer.VerifyEmailVerificationToken(verifyToken)
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", verifyClaims.Email)

	resetClaims, err := signer.VerifyPasswordResetToken(resetToken)
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", resetClaims.Email)
}

func TestJWTSigner_InvalidToken(t *testing.T) {
	signer, err := NewJWTSigner(testConfig())
	assert.NoError(t, err)

	claims, err := signer.VerifyAccessToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTSigner_ExpiredToken(t *testing.T) {
	signer := &jwtSigner{
		accessSecret:  "test_access_secret_key_very_long_for_testing",
		refreshSecret: "test_refresh_secret_key_very_long_for_testing",
		accessTTL:     -time.Minute,
		refreshTTL:    -time.Minute,
	}

	token, err := signer.SignAccessToken(uuid.New())
	assert.NoError(t, err)

	claims, err := signer.VerifyAccessToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTSigner_EmptySecrets(t *testing.T) {
	cfg := &config.Config{}

	signer, err := NewJWTSigner(cfg)
	assert.Error(t, err)
	assert.Nil(t, signer)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTSigner_RefreshTokenTTL(t *testing.T) {
	signer, err := NewJWTSigner(testConfig())
	assert.NoError(t, err)
	assert.Equal(t, time.Hour*24*7, signer.RefreshTokenTTL())

	cfg := testConfig()
	cfg.Token = &config.TokenConfig{RefreshTTL: time.Hour * 48}
	signer, err = NewJWTSigner(cfg)
	assert.NoError(t, err)
	assert.Equal(t, time.Hour*48, signer.RefreshTokenTTL())
}
