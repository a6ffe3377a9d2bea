package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"amora/internal/domain/entity"
	domainerrors "amora/internal/domain/errors"
	"amora/internal/domain/repository"
	"amora/internal/domain/service"
	mockRepo "amora/internal/mocks/repository"
	mockSvc "amora/internal/mocks/service"
	mockUC "amora/internal/mocks/usecase"
	"amora/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenServiceFixtures holds all test dependencies for token service tests.
type tokenServiceFixtures struct {
	service          usecase.TokenUsecase
	signer           *mockSvc.MockTokenSigner
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	verifyTokenRepo  *mockRepo.MockEmailVerificationTokenRepository
	resetTokenRepo   *mockRepo.MockPasswordResetTokenRepository
}

func createTestTokenService(t *testing.T) tokenServiceFixtures {
	signer := mockSvc.NewMockTokenSigner(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	verifyTokenRepo := mockRepo.NewMockEmailVerificationTokenRepository(t)
	resetTokenRepo := mockRepo.NewMockPasswordResetTokenRepository(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewTokenService(TokenServiceParams{
		Signer:           signer,
		RefreshTokenRepo: refreshTokenRepo,
		VerifyTokenRepo:  verifyTokenRepo,
		ResetTokenRepo:   resetTokenRepo,
		Logger:           logger,
	})

	return tokenServiceFixtures{
		service:          svc,
		signer:           signer,
		refreshTokenRepo: refreshTokenRepo,
		verifyTokenRepo:  verifyTokenRepo,
		resetTokenRepo:   resetTokenRepo,
	}
}

func TestTokenService_IssueSession_StoresRefreshTokenAndFillsSink(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.signer.On("SignAccessToken", userID).Return("access-token", nil)
	fx.signer.On("SignRefreshToken", userID).Return("refresh-token", nil)
	fx.refreshTokenRepo.On("Upsert", ctx, &entity.RefreshToken{
		UserID: userID,
		Token:  "refresh-token",
	}).Return(nil)
	sink.On("SetRefreshToken", "refresh-token").Return()

	accessToken, err := fx.service.IssueSession(ctx, userID, sink)

	require.NoError(t, err)
	assert.Equal(t, "access-token", accessToken)
}

func TestTokenService_RevokeSession_Idempotent(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()
	sink := mockUC.NewMockRefreshTokenSink(t)

	// The repository delete succeeds whether or not a row existed.
	fx.refreshTokenRepo.On("DeleteByUserID", ctx, userID).Return(nil)
	sink.On("ClearRefreshToken").Return()

	err := fx.service.RevokeSession(ctx, userID, sink)

	require.NoError(t, err)
}

func TestTokenService_RotateSession_Success(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.signer.On("VerifyRefreshToken", "old-refresh").
		Return(&service.UserClaims{UserID: userID}, nil)
	fx.refreshTokenRepo.On("FindByUserID", ctx, userID).
		Return(&entity.RefreshToken{UserID: userID, Token: "old-refresh"}, nil)
	fx.signer.On("SignAccessToken", userID).Return("new-access", nil)
	fx.signer.On("SignRefreshToken", userID).Return("new-refresh", nil)
	fx.refreshTokenRepo.On("Upsert", ctx, &entity.RefreshToken{
		UserID: userID,
		Token:  "new-refresh",
	}).Return(nil)
	sink.On("SetRefreshToken", "new-refresh").Return()

	accessToken, err := fx.service.RotateSession(ctx, "old-refresh", sink)

	require.NoError(t, err)
	assert.Equal(t, "new-access", accessToken)
}

func TestTokenService_RotateSession_EmptyTokenClearsSink(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)

	sink.On("ClearRefreshToken").Return()

	_, err := fx.service.RotateSession(ctx, "", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestTokenService_RotateSession_BadSignatureClearsSink(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.signer.On("VerifyRefreshToken", "forged").
		Return(nil, errors.New("signature invalid"))
	sink.On("ClearRefreshToken").Return()

	_, err := fx.service.RotateSession(ctx, "forged", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestTokenService_RotateSession_NoStoredSessionClearsSink(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.signer.On("VerifyRefreshToken", "valid-but-orphaned").
		Return(&service.UserClaims{UserID: userID}, nil)
	fx.refreshTokenRepo.On("FindByUserID", ctx, userID).
		Return(nil, repository.ErrRefreshTokenNotFound)
	sink.On("ClearRefreshToken").Return()

	_, err := fx.service.RotateSession(ctx, "valid-but-orphaned", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

// A token with a valid signature that was already rotated out must be
// rejected: only the most recently issued refresh token matches the stored
// row, so a captured older token replays into a forced logout instead of a
// new session.
func TestTokenService_RotateSession_ReplayedTokenRejected(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()
	userID := uuid.New()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.signer.On("VerifyRefreshToken", "stale-refresh").
		Return(&service.UserClaims{UserID: userID}, nil)
	fx.refreshTokenRepo.On("FindByUserID", ctx, userID).
		Return(&entity.RefreshToken{UserID: userID, Token: "current-refresh"}, nil)
	sink.On("ClearRefreshToken").Return()

	_, err := fx.service.RotateSession(ctx, "stale-refresh", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestTokenService_IssueEmailVerificationToken_ReplacesPending(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.signer.On("SignEmailVerificationToken", "user@example.com").
		Return("verify-token", nil)
	fx.verifyTokenRepo.On("Upsert", ctx, &entity.EmailVerificationToken{
		Email: "user@example.com",
		Token: "verify-token",
	}).Return(nil)

	token, err := fx.service.IssueEmailVerificationToken(ctx, "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, "verify-token", token)
}

func TestTokenService_ConsumeEmailVerificationToken_Success(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.verifyTokenRepo.On("FindByToken", ctx, "verify-token").
		Return(&entity.EmailVerificationToken{Email: "user@example.com", Token: "verify-token"}, nil)
	fx.verifyTokenRepo.On("DeleteByToken", ctx, "verify-token").Return(nil)
	fx.signer.On("VerifyEmailVerificationToken", "verify-token").
		Return(&service.EmailClaims{Email: "user@example.com"}, nil)

	email, err := fx.service.ConsumeEmailVerificationToken(ctx, "verify-token")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestTokenService_ConsumeEmailVerificationToken_UnknownToken(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.verifyTokenRepo.On("FindByToken", ctx, "already-used").
		Return(nil, repository.ErrActionTokenNotFound)

	_, err := fx.service.ConsumeEmailVerificationToken(ctx, "already-used")

	assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenNotFound))
}

// An expired token still burns its stored row, so the same token cannot be
// retried after the clock problem is "fixed".
func TestTokenService_ConsumeEmailVerificationToken_ExpiredStillDeletesRow(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.verifyTokenRepo.On("FindByToken", ctx, "expired-token").
		Return(&entity.EmailVerificationToken{Email: "user@example.com", Token: "expired-token"}, nil)
	fx.verifyTokenRepo.On("DeleteByToken", ctx, "expired-token").Return(nil)
	fx.signer.On("VerifyEmailVerificationToken", "expired-token").
		Return(nil, errors.New("token is expired"))

	_, err := fx.service.ConsumeEmailVerificationToken(ctx, "expired-token")

	assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenInvalid))
	fx.verifyTokenRepo.AssertCalled(t, "DeleteByToken", ctx, "expired-token")
}

// Two redemption attempts can race past the lookup; only the one whose
// delete actually removed the row may proceed.
func TestTokenService_ConsumeEmailVerificationToken_ConcurrentConsumerWins(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.verifyTokenRepo.On("FindByToken", ctx, "verify-token").
		Return(&entity.EmailVerificationToken{Email: "user@example.com", Token: "verify-token"}, nil)
	fx.verifyTokenRepo.On("DeleteByToken", ctx, "verify-token").
		Return(repository.ErrActionTokenNotFound)

	_, err := fx.service.ConsumeEmailVerificationToken(ctx, "verify-token")

	assert.True(t, errors.Is(err, domainerrors.ErrVerificationTokenNotFound))
	fx.signer.AssertNotCalled(t, "VerifyEmailVerificationToken", "verify-token")
}

func TestTokenService_ConsumePasswordResetToken_Success(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.resetTokenRepo.On("FindByToken", ctx, "reset-token").
		Return(&entity.PasswordResetToken{Email: "user@example.com", Token: "reset-token"}, nil)
	fx.resetTokenRepo.On("DeleteByToken", ctx, "reset-token").Return(nil)
	fx.signer.On("VerifyPasswordResetToken", "reset-token").
		Return(&service.EmailClaims{Email: "user@example.com"}, nil)

	email, err := fx.service.ConsumePasswordResetToken(ctx, "reset-token")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
}

func TestTokenService_ConsumePasswordResetToken_ExpiredStillDeletesRow(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.resetTokenRepo.On("FindByToken", ctx, "expired-reset").
		Return(&entity.PasswordResetToken{Email: "user@example.com", Token: "expired-reset"}, nil)
	fx.resetTokenRepo.On("DeleteByToken", ctx, "expired-reset").Return(nil)
	fx.signer.On("VerifyPasswordResetToken", "expired-reset").
		Return(nil, errors.New("token is expired"))

	_, err := fx.service.ConsumePasswordResetToken(ctx, "expired-reset")

	assert.True(t, errors.Is(err, domainerrors.ErrResetTokenInvalid))
	fx.resetTokenRepo.AssertCalled(t, "DeleteByToken", ctx, "expired-reset")
}

func TestTokenService_ConsumePasswordResetToken_ConcurrentConsumerWins(t *testing.T) {
	fx := createTestTokenService(t)
	ctx := context.Background()

	fx.resetTokenRepo.On("FindByToken", ctx, "reset-token").
		Return(&entity.PasswordResetToken{Email: "user@example.com", Token: "reset-token"}, nil)
	fx.resetTokenRepo.On("DeleteByToken", ctx, "reset-token").
		Return(repository.ErrActionTokenNotFound)

	_, err := fx.service.ConsumePasswordResetToken(ctx, "reset-token")

	assert.True(t, errors.Is(err, domainerrors.ErrResetTokenNotFound))
	fx.signer.AssertNotCalled(t, "VerifyPasswordResetToken", "reset-token")
}
