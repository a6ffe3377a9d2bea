// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"amora/config"
	"amora/internal/delivery/http/middleware"
	"amora/internal/delivery/http/response"
	"amora/internal/domain/service"
	"amora/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// --- Request DTOs ---

type signUpRequest struct {
	Name           string `json:"name" validate:"max=50"`
	Email          string `json:"email" validate:"required,email,max=50"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	PasswordRepeat string `json:"passwordRepeat" validate:"required"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type changeEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
}

type changePasswordRequest struct {
	OldPassword       string `json:"oldPassword" validate:"required"`
	NewPassword       string `json:"newPassword" validate:"required,min=8"`
	NewPasswordRepeat string `json:"newPasswordRepeat" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token             string `json:"token" validate:"required"`
	NewPassword       string `json:"newPassword" validate:"required,min=8"`
	NewPasswordRepeat string `json:"newPasswordRepeat" validate:"required"`
}

// AuthHandler holds dependencies for the account and session handlers.
type AuthHandler struct {
	auth   usecase.AuthUsecase
	oauth  usecase.OAuthUsecase
	tokens usecase.TokenUsecase
	signer service.TokenSigner
	logger *slog.Logger
	secure bool
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(
	auth usecase.AuthUsecase,
	oauth usecase.OAuthUsecase,
	tokens usecase.TokenUsecase,
	signer service.TokenSigner,
	logger *slog.Logger,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		oauth:  oauth,
		tokens: tokens,
		signer: signer,
		logger: logger,
		secure: cfg.Env.Env == "production",
	}
}

// sink binds a RefreshTokenSink to the current request's response cookie.
func (h *AuthHandler) sink(c echo.Context) *refreshCookieSink {
	return &refreshCookieSink{
		c:      c,
		ttl:    h.signer.RefreshTokenTTL(),
		secure: h.secure,
	}
}

// userID extracts the authenticated user ID set by the auth middleware.
func userID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(middleware.UserIDContextKey).(uuid.UUID)

	return id, ok
}

// SignUp handles the account registration request.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var input signUpRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-up input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.auth.SignUp(c.Request().Context(), usecase.SignUpInput{
		Name:           input.Name,
		Email:          input.Email,
		Password:       input.Password,
		PasswordRepeat: input.PasswordRepeat,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// SignIn handles the password sign-in request.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var input signInRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sign-in input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.auth.SignIn(c.Request().Context(), usecase.SignInInput{
		Email:    input.Email,
		Password: input.Password,
	}, h.sink(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"accessToken": output.AccessToken,
	}, "Sign-in successful")
}

// RefreshToken rotates the session identified by the refresh token cookie.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	sink := h.sink(c)

	accessToken, err := h.tokens.RotateSession(c.Request().Context(), sink.RefreshToken(), sink)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"accessToken": accessToken,
	}, "Token refreshed successfully")
}

// SignOut revokes the authenticated user's session.
func (h *AuthHandler) SignOut(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.auth.SignOut(c.Request().Context(), id, h.sink(c)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Sign-out successful")
}

// VerifyEmail consumes an email verification token.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var input verifyEmailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.auth.VerifyEmail(c.Request().Context(), input.Token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email verified successfully")
}

// ChangeEmail moves the authenticated account to a new email address.
func (h *AuthHandler) ChangeEmail(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input changeEmailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid change email input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.auth.ChangeEmail(c.Request().Context(), id, input.NewEmail); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email changed, please verify the new address")
}

// ChangePassword replaces the authenticated user's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, ok := userID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input changePasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid change password input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.auth.ChangePassword(c.Request().Context(), id, usecase.ChangePasswordInput{
		OldPassword:       input.OldPassword,
		NewPassword:       input.NewPassword,
		NewPasswordRepeat: input.NewPasswordRepeat,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// ForgotPassword starts the password reset flow for an email account.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var input forgotPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid forgot password input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.auth.ForgotPassword(c.Request().Context(), input.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset email sent")
}

// ResetPassword finishes the password reset flow with a single-use token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input resetPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset password input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.auth.ResetPassword(c.Request().Context(), usecase.ResetPasswordInput{
		Token:             input.Token,
		NewPassword:       input.NewPassword,
		NewPasswordRepeat: input.NewPasswordRepeat,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset successfully")
}

// GoogleAuthURL returns the Google consent page URL, or redirects to it
// when ?redirect=true is set.
func (h *AuthHandler) GoogleAuthURL(c echo.Context) error {
	authURL := h.oauth.AuthorizationURL()

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, authURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"googleAuthUrl": authURL,
	}, "Google OAuth URL generated successfully")
}

// GoogleCallback finishes the Google authorization-code flow.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	code := c.QueryParam("code")
	if code == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Authorization code is required")
	}

	output, err := h.oauth.Callback(c.Request().Context(), code, h.sink(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"accessToken": output.AccessToken,
	}, "Google OAuth authentication successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
