// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "amora/internal/delivery/context"
	"amora/internal/domain/entity"
	domainerrors "amora/internal/domain/errors"
	"amora/internal/domain/repository"
	"amora/internal/domain/service"
	"amora/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	hasher    service.PasswordHasher
	tokens    usecase.TokenUsecase
	mailer    service.Mailer
	publisher service.EventPublisher
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	Hasher    service.PasswordHasher
	Tokens    usecase.TokenUsecase
	Mailer    service.Mailer
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		hasher:    params.Hasher,
		tokens:    params.Tokens,
		mailer:    params.Mailer,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// publish sends a lifecycle event without letting a broker problem surface
// to the caller. Auth flows never fail because of the event pipeline.
func (srv *authService) publish(ctx context.Context, eventType string, user *entity.User) {
	event := &service.AuthEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
	if user != nil {
		event.UserID = user.ID.String()
		event.Email = user.Email
	}

	if err := srv.publisher.PublishAuthEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish auth event",
			slog.String("type", eventType), slog.Any("error", err),
		)
	}
}

// SignUp registers a new password-based account.
func (srv *authService) SignUp(ctx context.Context, input usecase.SignUpInput) (*usecase.SignUpOutput, error) {
	if input.Password != input.PasswordRepeat {
		return nil, domainerrors.ErrPasswordMismatch.WrapMessage("sign-up passwords do not match")
	}

	var created *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		_, err := userRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrEmailTaken.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		hashed, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("bcrypt hash failed")
		}

		created = &entity.User{
			Email:          input.Email,
			Name:           input.Name,
			HashedPassword: hashed,
			EmailVerified:  false,
		}

		return userRepo.Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User signed up", slog.String("userID", created.ID.String()))
	srv.publish(ctx, service.EventUserSignedUp, created)

	return &usecase.SignUpOutput{User: created.Public()}, nil
}

// SignIn authenticates a password-based account and opens its single session.
// Unknown email and wrong password return the same Unauthorized error, so the
// endpoint cannot be used to probe which addresses are registered.
func (srv *authService) SignIn(ctx context.Context, input usecase.SignInInput, sink usecase.RefreshTokenSink) (*usecase.SignInOutput, error) {
	user, err := srv.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown email")
		}

		return nil, errors.Wrap(err, "failed to load user for sign-in")
	}

	if !user.HasPassword() {
		return nil, domainerrors.ErrNotEmailAccount.WrapMessage("account has no password credential")
	}

	if !srv.hasher.Check(input.Password, user.HashedPassword) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password check failed")
	}

	accessToken, err := srv.tokens.IssueSession(ctx, user.ID, sink)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session")
	}

	// An unverified address gets a fresh verification mail on every login.
	// Failures here are logged only; the user is already authenticated.
	if !user.EmailVerified {
		srv.sendVerificationMail(ctx, user.Email)
	}

	srv.log(ctx).Info("User signed in", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventUserSignedIn, user)

	return &usecase.SignInOutput{AccessToken: accessToken}, nil
}

// SignOut ends the session of a password-based account. OAuth-linked accounts
// keep their provider session; there is nothing to revoke locally for them.
func (srv *authService) SignOut(ctx context.Context, userID uuid.UUID, sink usecase.RefreshTokenSink) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
		}

		return errors.Wrap(err, "failed to load user for sign-out")
	}

	if user.HasPassword() && !user.IsOAuthLinked() {
		if err := srv.tokens.RevokeSession(ctx, user.ID, sink); err != nil {
			return errors.Wrap(err, "failed to revoke session")
		}
	}

	srv.log(ctx).Info("User signed out", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventUserSignedOut, user)

	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (srv *authService) VerifyEmail(ctx context.Context, token string) error {
	email, err := srv.tokens.ConsumeEmailVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account for verified email no longer exists")
			}

			return errors.Wrap(err, "failed to load user for email verification")
		}

		if !user.HasPassword() || user.IsOAuthLinked() {
			return domainerrors.ErrNotEmailAccount.WrapMessage("verification applies to email sign-up accounts only")
		}

		user.EmailVerified = true

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Email verified", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventEmailVerified, user)

	return nil
}

// ChangeEmail moves a password-based account to a new address. The current
// address must already be verified; the new one starts unverified and gets
// its own verification mail.
func (srv *authService) ChangeEmail(ctx context.Context, userID uuid.UUID, newEmail string) error {
	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to load user for email change")
		}

		if !user.HasPassword() || user.IsOAuthLinked() {
			return domainerrors.ErrNotEmailAccount.WrapMessage("email change applies to email sign-up accounts only")
		}

		if !user.EmailVerified {
			// Re-arm verification for the current address, then refuse
			// the change until it is confirmed.
			srv.sendVerificationMail(ctx, user.Email)

			return domainerrors.ErrEmailNotVerified.WrapMessage("current email must be verified first")
		}

		if user.Email == newEmail {
			return domainerrors.ErrEmailUnchanged.WrapMessage("new email equals current email")
		}

		if _, err := userRepo.FindByEmail(ctx, newEmail); err == nil {
			return domainerrors.ErrEmailTaken.WrapMessage("new email already registered")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check new email availability")
		}

		user.Email = newEmail
		user.EmailVerified = false

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	srv.sendVerificationMail(ctx, newEmail)

	srv.log(ctx).Info("Email changed", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventEmailChanged, user)

	return nil
}

// ChangePassword replaces the password of an authenticated account after
// re-checking the old one. A wrong old password leaves the stored hash
// untouched.
func (srv *authService) ChangePassword(ctx context.Context, userID uuid.UUID, input usecase.ChangePasswordInput) error {
	if input.NewPassword != input.NewPasswordRepeat {
		return domainerrors.ErrPasswordMismatch.WrapMessage("new passwords do not match")
	}

	var user *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account no longer exists")
			}

			return errors.Wrap(err, "failed to load user for password change")
		}

		if !user.HasPassword() {
			return domainerrors.ErrNotEmailAccount.WrapMessage("account has no password credential")
		}

		if !srv.hasher.Check(input.OldPassword, user.HashedPassword) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("old password check failed")
		}

		hashed, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("bcrypt hash failed")
		}

		user.HashedPassword = hashed

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Password changed", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventPasswordChanged, user)

	return nil
}

// ForgotPassword starts the reset flow for a password-based account.
func (srv *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("no account for this email")
		}

		return errors.Wrap(err, "failed to load user for password reset")
	}

	if !user.HasPassword() || user.IsOAuthLinked() {
		return domainerrors.ErrNotEmailAccount.WrapMessage("password reset applies to email sign-up accounts only")
	}

	token, err := srv.tokens.IssuePasswordResetToken(ctx, user.Email)
	if err != nil {
		return errors.Wrap(err, "failed to issue password reset token")
	}

	// Mail delivery is best-effort: the token row exists, the user can
	// always request another mail.
	if err := srv.mailer.SendPasswordResetLink(ctx, user.Email, token); err != nil {
		srv.log(ctx).Warn("Failed to send password reset mail", slog.Any("error", err))
	}

	return nil
}

// ResetPassword finishes the reset flow by consuming the token and
// overwriting the hash.
func (srv *authService) ResetPassword(ctx context.Context, input usecase.ResetPasswordInput) error {
	if input.NewPassword != input.NewPasswordRepeat {
		return domainerrors.ErrPasswordMismatch.WrapMessage("new passwords do not match")
	}

	email, err := srv.tokens.ConsumePasswordResetToken(ctx, input.Token)
	if err != nil {
		return err
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		var err error
		user, err = userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUserNotFound.WrapMessage("account for reset token no longer exists")
			}

			return errors.Wrap(err, "failed to load user for password reset")
		}

		if !user.HasPassword() || user.IsOAuthLinked() {
			return domainerrors.ErrNotEmailAccount.WrapMessage("password reset applies to email sign-up accounts only")
		}

		hashed, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return domainerrors.ErrPasswordHashFailed.WrapMessage("bcrypt hash failed")
		}

		user.HashedPassword = hashed

		return userRepo.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	srv.log(ctx).Info("Password reset", slog.String("userID", user.ID.String()))
	srv.publish(ctx, service.EventPasswordReset, user)

	return nil
}

// sendVerificationMail issues a fresh verification token and mails the link.
// Best-effort: problems are logged and swallowed.
func (srv *authService) sendVerificationMail(ctx context.Context, email string) {
	token, err := srv.tokens.IssueEmailVerificationToken(ctx, email)
	if err != nil {
		srv.log(ctx).Warn("Failed to issue email verification token", slog.Any("error", err))

		return
	}

	if err := srv.mailer.SendEmailVerificationLink(ctx, email, token); err != nil {
		srv.log(ctx).Warn("Failed to send email verification mail", slog.Any("error", err))
	}
}
