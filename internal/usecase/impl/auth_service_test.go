package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"amora/internal/domain/entity"
	domainerrors "amora/internal/domain/errors"
	"amora/internal/domain/repository"
	mockRepo "amora/internal/mocks/repository"
	mockSvc "amora/internal/mocks/service"
	mockUC "amora/internal/mocks/usecase"
	"amora/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// authServiceFixtures holds all test dependencies for auth service tests.
type authServiceFixtures struct {
	service   usecase.AuthUsecase
	userRepo  *mockRepo.MockUserRepository
	hasher    *mockSvc.MockPasswordHasher
	tokens    *mockUC.MockTokenUsecase
	mailer    *mockSvc.MockMailer
	publisher *mockSvc.MockEventPublisher
}

func createTestAuthService(t *testing.T) authServiceFixtures {
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockUC.NewMockTokenUsecase(t)
	mailer := mockSvc.NewMockMailer(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{UserRepo: userRepo},
	}

	svc := NewAuthService(AuthServiceParams{
		TxManager: txManager,
		UserRepo:  userRepo,
		Hasher:    hasher,
		Tokens:    tokens,
		Mailer:    mailer,
		Publisher: publisher,
		Logger:    logger,
	})

	return authServiceFixtures{
		service:   svc,
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
	}
}

func (fx authServiceFixtures) expectEvent(ctx context.Context) {
	fx.publisher.On("PublishAuthEvent", ctx, mock.AnythingOfType("*service.AuthEvent")).Return(nil)
}

func passwordUser(email string) *entity.User {
	return &entity.User{
		ID:             uuid.New(),
		Email:          email,
		Name:           "Test User",
		HashedPassword: "hashed_password",
		EmailVerified:  true,
	}
}

func oauthUser(email string) *entity.User {
	return &entity.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          "Test User",
		EmailVerified: true,
		OAuthID:       "google-sub-123",
		OAuthProvider: "google",
	}
}

func TestAuthService_SignUp_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	input := usecase.SignUpInput{
		Name:           "Test User",
		Email:          "test@example.com",
		Password:       "Password123!",
		PasswordRepeat: "Password123!",
	}

	fx.userRepo.On("FindByEmail", ctx, input.Email).
		Return(nil, repository.ErrUserNotFound)
	fx.hasher.On("Hash", input.Password).Return("hashed_password", nil)
	fx.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)
	fx.expectEvent(ctx)

	output, err := fx.service.SignUp(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, input.Email, output.User.Email)
	assert.False(t, output.User.EmailVerified)
}

func TestAuthService_SignUp_PasswordRepeatMismatch(t *testing.T) {
	fx := createTestAuthService(t)

	_, err := fx.service.SignUp(context.Background(), usecase.SignUpInput{
		Name:           "Test User",
		Email:          "test@example.com",
		Password:       "Password123!",
		PasswordRepeat: "Different123!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAuthService_SignUp_EmailTaken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "taken@example.com").
		Return(passwordUser("taken@example.com"), nil)

	_, err := fx.service.SignUp(ctx, usecase.SignUpInput{
		Name:           "Test User",
		Email:          "taken@example.com",
		Password:       "Password123!",
		PasswordRepeat: "Password123!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAuthService_SignIn_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Check", "Password123!", user.HashedPassword).Return(true)
	fx.tokens.On("IssueSession", ctx, user.ID, sink).Return("access-token", nil)
	fx.expectEvent(ctx)

	output, err := fx.service.SignIn(ctx, usecase.SignInInput{
		Email:    user.Email,
		Password: "Password123!",
	}, sink)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
}

// Unknown email and wrong password must be indistinguishable to the caller,
// otherwise the endpoint doubles as a registry of signed-up addresses.
func TestAuthService_SignIn_UniformErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()
		sink := mockUC.NewMockRefreshTokenSink(t)

		fx.userRepo.On("FindByEmail", ctx, "nobody@example.com").
			Return(nil, repository.ErrUserNotFound)

		_, err := fx.service.SignIn(ctx, usecase.SignInInput{
			Email:    "nobody@example.com",
			Password: "Password123!",
		}, sink)

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := createTestAuthService(t)
		ctx := context.Background()
		user := passwordUser("test@example.com")
		sink := mockUC.NewMockRefreshTokenSink(t)

		fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
		fx.hasher.On("Check", "wrong", user.HashedPassword).Return(false)

		_, err := fx.service.SignIn(ctx, usecase.SignInInput{
			Email:    user.Email,
			Password: "wrong",
		}, sink)

		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	})
}

func TestAuthService_SignIn_OAuthOnlyAccount(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := oauthUser("google@example.com")
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	_, err := fx.service.SignIn(ctx, usecase.SignInInput{
		Email:    user.Email,
		Password: "Password123!",
	}, sink)

	assert.True(t, errors.Is(err, domainerrors.ErrNotEmailAccount))
}

func TestAuthService_SignIn_UnverifiedEmailGetsVerificationMail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")
	user.EmailVerified = false
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Check", "Password123!", user.HashedPassword).Return(true)
	fx.tokens.On("IssueSession", ctx, user.ID, sink).Return("access-token", nil)
	fx.tokens.On("IssueEmailVerificationToken", ctx, user.Email).Return("verify-token", nil)
	fx.mailer.On("SendEmailVerificationLink", ctx, user.Email, "verify-token").Return(nil)
	fx.expectEvent(ctx)

	output, err := fx.service.SignIn(ctx, usecase.SignInInput{
		Email:    user.Email,
		Password: "Password123!",
	}, sink)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
}

func TestAuthService_SignOut_PasswordAccountRevokesSession(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.tokens.On("RevokeSession", ctx, user.ID, sink).Return(nil)
	fx.expectEvent(ctx)

	err := fx.service.SignOut(ctx, user.ID, sink)

	require.NoError(t, err)
}

func TestAuthService_SignOut_OAuthAccountSkipsRevoke(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := oauthUser("google@example.com")
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.expectEvent(ctx)

	err := fx.service.SignOut(ctx, user.ID, sink)

	require.NoError(t, err)
	fx.tokens.AssertNotCalled(t, "RevokeSession", ctx, user.ID, sink)
}

func TestAuthService_VerifyEmail_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")
	user.EmailVerified = false

	fx.tokens.On("ConsumeEmailVerificationToken", ctx, "verify-token").
		Return(user.Email, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.EmailVerified
	})).Return(nil)
	fx.expectEvent(ctx)

	err := fx.service.VerifyEmail(ctx, "verify-token")

	require.NoError(t, err)
}

func TestAuthService_VerifyEmail_OAuthAccountRejected(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := oauthUser("google@example.com")

	fx.tokens.On("ConsumeEmailVerificationToken", ctx, "verify-token").
		Return(user.Email, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	err := fx.service.VerifyEmail(ctx, "verify-token")

	assert.True(t, errors.Is(err, domainerrors.ErrNotEmailAccount))
}

func TestAuthService_ChangeEmail_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("old@example.com")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.userRepo.On("FindByEmail", ctx, "new@example.com").
		Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "new@example.com" && !u.EmailVerified
	})).Return(nil)
	fx.tokens.On("IssueEmailVerificationToken", ctx, "new@example.com").
		Return("verify-token", nil)
	fx.mailer.On("SendEmailVerificationLink", ctx, "new@example.com", "verify-token").
		Return(nil)
	fx.expectEvent(ctx)

	err := fx.service.ChangeEmail(ctx, user.ID, "new@example.com")

	require.NoError(t, err)
}

// An unverified current address blocks the change but re-arms verification
// for it, so the user can unblock themselves from their inbox.
func TestAuthService_ChangeEmail_UnverifiedCurrentEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("old@example.com")
	user.EmailVerified = false

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.tokens.On("IssueEmailVerificationToken", ctx, user.Email).
		Return("verify-token", nil)
	fx.mailer.On("SendEmailVerificationLink", ctx, user.Email, "verify-token").
		Return(nil)

	err := fx.service.ChangeEmail(ctx, user.ID, "new@example.com")

	assert.True(t, errors.Is(err, domainerrors.ErrEmailNotVerified))
}

func TestAuthService_ChangeEmail_NewEmailTaken(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("old@example.com")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.userRepo.On("FindByEmail", ctx, "taken@example.com").
		Return(passwordUser("taken@example.com"), nil)

	err := fx.service.ChangeEmail(ctx, user.ID, "taken@example.com")

	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	fx.userRepo.AssertNotCalled(t, "Update", ctx, user)
}

func TestAuthService_ChangeEmail_SameEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("same@example.com")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)

	err := fx.service.ChangeEmail(ctx, user.ID, user.Email)

	assert.True(t, errors.Is(err, domainerrors.ErrEmailUnchanged))
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.hasher.On("Check", "OldPassword1!", "hashed_password").Return(true)
	fx.hasher.On("Hash", "NewPassword1!").Return("new_hash", nil)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.HashedPassword == "new_hash"
	})).Return(nil)
	fx.expectEvent(ctx)

	err := fx.service.ChangePassword(ctx, user.ID, usecase.ChangePasswordInput{
		OldPassword:       "OldPassword1!",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "NewPassword1!",
	})

	require.NoError(t, err)
}

// A wrong old password must leave the stored hash untouched.
func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")

	fx.userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	fx.hasher.On("Check", "wrong", "hashed_password").Return(false)

	err := fx.service.ChangePassword(ctx, user.ID, usecase.ChangePasswordInput{
		OldPassword:       "wrong",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "NewPassword1!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	assert.Equal(t, "hashed_password", user.HashedPassword)
	fx.userRepo.AssertNotCalled(t, "Update", ctx, user)
}

func TestAuthService_ChangePassword_RepeatMismatch(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.ChangePassword(context.Background(), uuid.New(), usecase.ChangePasswordInput{
		OldPassword:       "OldPassword1!",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "Different1!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAuthService_ForgotPassword_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.tokens.On("IssuePasswordResetToken", ctx, user.Email).Return("reset-token", nil)
	fx.mailer.On("SendPasswordResetLink", ctx, user.Email, "reset-token").Return(nil)

	err := fx.service.ForgotPassword(ctx, user.Email)

	require.NoError(t, err)
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()

	fx.userRepo.On("FindByEmail", ctx, "nobody@example.com").
		Return(nil, repository.ErrUserNotFound)

	err := fx.service.ForgotPassword(ctx, "nobody@example.com")

	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}

func TestAuthService_ForgotPassword_OAuthAccountRejected(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := oauthUser("oauth@example.com")

	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	err := fx.service.ForgotPassword(ctx, user.Email)

	assert.True(t, errors.Is(err, domainerrors.ErrNotEmailAccount))
	fx.tokens.AssertNotCalled(t, "IssuePasswordResetToken", ctx, user.Email)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := passwordUser("test@example.com")

	fx.tokens.On("ConsumePasswordResetToken", ctx, "reset-token").
		Return(user.Email, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.hasher.On("Hash", "NewPassword1!").Return("new_hash", nil)
	fx.userRepo.On("Update", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.HashedPassword == "new_hash"
	})).Return(nil)
	fx.expectEvent(ctx)

	err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:             "reset-token",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "NewPassword1!",
	})

	require.NoError(t, err)
}

func TestAuthService_ResetPassword_RepeatMismatch(t *testing.T) {
	fx := createTestAuthService(t)

	err := fx.service.ResetPassword(context.Background(), usecase.ResetPasswordInput{
		Token:             "reset-token",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "Different1!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
}

func TestAuthService_ResetPassword_OAuthAccountRejected(t *testing.T) {
	fx := createTestAuthService(t)
	ctx := context.Background()
	user := oauthUser("oauth@example.com")

	fx.tokens.On("ConsumePasswordResetToken", ctx, "reset-token").
		Return(user.Email, nil)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	err := fx.service.ResetPassword(ctx, usecase.ResetPasswordInput{
		Token:             "reset-token",
		NewPassword:       "NewPassword1!",
		NewPasswordRepeat: "NewPassword1!",
	})

	assert.True(t, errors.Is(err, domainerrors.ErrNotEmailAccount))
	fx.hasher.AssertNotCalled(t, "Hash", "NewPassword1!")
	fx.userRepo.AssertNotCalled(t, "Update", ctx, user)
}
