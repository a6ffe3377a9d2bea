package errors

import (
	"net/http"

	"amora/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// User-related errors
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"user not found",
		"",
	)

	ErrEmailTaken = NewBaseError(
		http.StatusBadRequest,
		"EMAIL_TAKEN",
		"this email is already registered",
		"",
	)

	ErrEmailUnchanged = NewBaseError(
		http.StatusBadRequest,
		"EMAIL_UNCHANGED",
		"new email must differ from the current one",
		"",
	)

	ErrEmailNotVerified = NewBaseError(
		http.StatusBadRequest,
		"EMAIL_NOT_VERIFIED",
		"current email is not verified yet; a new verification message has been sent",
		"",
	)

	// Credential-related errors
	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"password and repeated password do not match",
		"",
	)

	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"wrong email or password",
		"",
	)

	ErrNotEmailAccount = NewBaseError(
		http.StatusBadRequest,
		"NOT_EMAIL_ACCOUNT",
		"account is not registered via email",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"failed to process password",
		"",
	)

	// Session-related errors
	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"refresh token is invalid or has expired",
		"",
	)

	ErrAccessTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"ACCESS_TOKEN_INVALID",
		"access token is invalid or has expired",
		"",
	)

	// Single-use action token errors
	ErrVerificationTokenNotFound = NewBaseError(
		http.StatusBadRequest,
		"VERIFICATION_TOKEN_NOT_FOUND",
		"no such email verification token",
		"",
	)

	ErrVerificationTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"VERIFICATION_TOKEN_INVALID",
		"email verification token is invalid or has expired; sign in or change email again to get a new message",
		"",
	)

	ErrResetTokenNotFound = NewBaseError(
		http.StatusBadRequest,
		"RESET_TOKEN_NOT_FOUND",
		"no such password reset token",
		"",
	)

	ErrResetTokenInvalid = NewBaseError(
		http.StatusBadRequest,
		"RESET_TOKEN_INVALID",
		"password reset token is invalid or has expired; request a new one",
		"",
	)

	// OAuth-related errors
	ErrOAuthExchangeFailed = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_EXCHANGE_FAILED",
		"failed to exchange authorization code",
		"",
	)

	ErrOAuthUserInfoFailed = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_USERINFO_FAILED",
		"failed to fetch user info from provider",
		"",
	)

	ErrOAuthIncompleteData = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_INCOMPLETE_DATA",
		"incomplete user data received from provider",
		"",
	)

	ErrOAuthEmailTaken = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_EMAIL_TAKEN",
		"this email is taken by an email sign-up account",
		"",
	)

	ErrOAuthProviderConflict = NewBaseError(
		http.StatusBadRequest,
		"OAUTH_PROVIDER_CONFLICT",
		"this email is linked to a different provider account",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
