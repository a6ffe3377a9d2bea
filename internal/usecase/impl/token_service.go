// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

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

// tokenService implements the TokenUsecase interface.
type tokenService struct {
	signer           service.TokenSigner
	refreshTokenRepo repository.RefreshTokenRepository
	verifyTokenRepo  repository.EmailVerificationTokenRepository
	resetTokenRepo   repository.PasswordResetTokenRepository
	logger           *slog.Logger
}

// TokenServiceParams holds dependencies for tokenService, injected by Fx.
type TokenServiceParams struct {
	fx.In

	Signer           service.TokenSigner
	RefreshTokenRepo repository.RefreshTokenRepository
	VerifyTokenRepo  repository.EmailVerificationTokenRepository
	ResetTokenRepo   repository.PasswordResetTokenRepository
	Logger           *slog.Logger
}

// NewTokenService is the constructor for tokenService.
func NewTokenService(params TokenServiceParams) usecase.TokenUsecase {
	return &tokenService{
		signer:           params.Signer,
		refreshTokenRepo: params.RefreshTokenRepo,
		verifyTokenRepo:  params.VerifyTokenRepo,
		resetTokenRepo:   params.ResetTokenRepo,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *tokenService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// IssueSession signs a fresh token pair and makes the refresh token the
// user's only active session. The upsert overwrites whatever session existed
// before, so a second login anywhere invalidates the first.
func (srv *tokenService) IssueSession(ctx context.Context, userID uuid.UUID, sink usecase.RefreshTokenSink) (string, error) {
	accessToken, err := srv.signer.SignAccessToken(userID)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}

	refreshToken, err := srv.signer.SignRefreshToken(userID)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign refresh token")
	}

	err = srv.refreshTokenRepo.Upsert(ctx, &entity.RefreshToken{
		UserID: userID,
		Token:  refreshToken,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to store refresh token")
	}

	sink.SetRefreshToken(refreshToken)

	return accessToken, nil
}

// RevokeSession ends the user's session. Idempotent: revoking a user with no
// stored session still clears the sink and succeeds.
func (srv *tokenService) RevokeSession(ctx context.Context, userID uuid.UUID, sink usecase.RefreshTokenSink) error {
	if err := srv.refreshTokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	sink.ClearRefreshToken()

	return nil
}

// RotateSession exchanges a presented refresh token for a new pair. The
// presented token must carry a valid signature AND be byte-equal to the
// stored one; a stale token that was already rotated out fails the
// comparison, which shuts down replay of captured tokens. Every rejection
// clears the sink first.
func (srv *tokenService) RotateSession(ctx context.Context, presented string, sink usecase.RefreshTokenSink) (string, error) {
	if presented == "" {
		sink.ClearRefreshToken()

		return "", domainerrors.ErrRefreshTokenInvalid.WrapMessage("no refresh token presented")
	}

	claims, err := srv.signer.VerifyRefreshToken(presented)
	if err != nil {
		srv.log(ctx).Warn("Refresh token failed verification", slog.Any("error", err))
		sink.ClearRefreshToken()

		return "", domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token verification failed")
	}

	stored, err := srv.refreshTokenRepo.FindByUserID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			sink.ClearRefreshToken()

			return "", domainerrors.ErrRefreshTokenInvalid.WrapMessage("no active session for user")
		}

		return "", errors.Wrap(err, "failed to load stored refresh token")
	}

	if stored.Token != presented {
		srv.log(ctx).Warn("Refresh token mismatch, possible replay",
			slog.String("userID", claims.UserID.String()),
		)
		sink.ClearRefreshToken()

		return "", domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token superseded")
	}

	return srv.IssueSession(ctx, claims.UserID, sink)
}

// IssueEmailVerificationToken signs and stores a verification token for the
// email. The upsert replaces any pending token for the same address.
func (srv *tokenService) IssueEmailVerificationToken(ctx context.Context, email string) (string, error) {
	token, err := srv.signer.SignEmailVerificationToken(email)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign email verification token")
	}

	err = srv.verifyTokenRepo.Upsert(ctx, &entity.EmailVerificationToken{
		Email: email,
		Token: token,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to store email verification token")
	}

	return token, nil
}

// ConsumeEmailVerificationToken burns a verification token and returns its
// email. The stored row is deleted on every attempt, valid or not, so a
// token never gets a second chance.
func (srv *tokenService) ConsumeEmailVerificationToken(ctx context.Context, token string) (string, error) {
	stored, err := srv.verifyTokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrActionTokenNotFound) {
			return "", domainerrors.ErrVerificationTokenNotFound.WrapMessage("token not found or already used")
		}

		return "", errors.Wrap(err, "failed to look up email verification token")
	}

	if err := srv.verifyTokenRepo.DeleteByToken(ctx, token); err != nil {
		// A concurrent consumer burned the token between our lookup and
		// delete; only the one that deleted the row may proceed.
		if errors.Is(err, repository.ErrActionTokenNotFound) {
			return "", domainerrors.ErrVerificationTokenNotFound.WrapMessage("token already consumed")
		}

		return "", errors.Wrap(err, "failed to delete email verification token")
	}

	if _, err := srv.signer.VerifyEmailVerificationToken(token); err != nil {
		srv.log(ctx).Warn("Email verification token failed verification",
			slog.String("email", stored.Email), slog.Any("error", err),
		)

		return "", domainerrors.ErrVerificationTokenInvalid.WrapMessage("token verification failed")
	}

	return stored.Email, nil
}

// IssuePasswordResetToken signs and stores a reset token for the email.
func (srv *tokenService) IssuePasswordResetToken(ctx context.Context, email string) (string, error) {
	token, err := srv.signer.SignPasswordResetToken(email)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign password reset token")
	}

	err = srv.resetTokenRepo.Upsert(ctx, &entity.PasswordResetToken{
		Email: email,
		Token: token,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to store password reset token")
	}

	return token, nil
}

// ConsumePasswordResetToken burns a reset token and returns its email.
// Single-use semantics identical to ConsumeEmailVerificationToken.
func (srv *tokenService) ConsumePasswordResetToken(ctx context.Context, token string) (string, error) {
	stored, err := srv.resetTokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrActionTokenNotFound) {
			return "", domainerrors.ErrResetTokenNotFound.WrapMessage("token not found or already used")
		}

		return "", errors.Wrap(err, "failed to look up password reset token")
	}

	if err := srv.resetTokenRepo.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, repository.ErrActionTokenNotFound) {
			return "", domainerrors.ErrResetTokenNotFound.WrapMessage("token already consumed")
		}

		return "", errors.Wrap(err, "failed to delete password reset token")
	}

	if _, err := srv.signer.VerifyPasswordResetToken(token); err != nil {
		srv.log(ctx).Warn("Password reset token failed verification",
			slog.String("email", stored.Email), slog.Any("error", err),
		)

		return "", domainerrors.ErrResetTokenInvalid.WrapMessage("token verification failed")
	}

	return stored.Email, nil
}
