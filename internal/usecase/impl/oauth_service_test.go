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
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// oauthServiceFixtures holds all test dependencies for oauth service tests.
type oauthServiceFixtures struct {
	service   usecase.OAuthUsecase
	provider  *mockSvc.MockOAuthProvider
	userRepo  *mockRepo.MockUserRepository
	tokens    *mockUC.MockTokenUsecase
	publisher *mockSvc.MockEventPublisher
}

func createTestOAuthService(t *testing.T) oauthServiceFixtures {
	provider := mockSvc.NewMockOAuthProvider(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	tokens := mockUC.NewMockTokenUsecase(t)
	publisher := mockSvc.NewMockEventPublisher(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	txManager := &mockRepo.StubTransactionManager{
		Factory: &mockRepo.StubRepositoryFactory{UserRepo: userRepo},
	}

	svc := NewOAuthService(OAuthServiceParams{
		Provider:  provider,
		TxManager: txManager,
		Tokens:    tokens,
		Publisher: publisher,
		Logger:    logger,
	})

	return oauthServiceFixtures{
		service:   svc,
		provider:  provider,
		userRepo:  userRepo,
		tokens:    tokens,
		publisher: publisher,
	}
}

func (fx oauthServiceFixtures) expectExchange(ctx context.Context, profile *service.OAuthUser) {
	fx.provider.On("ExchangeCodeForToken", ctx, "auth-code").Return("provider-token", nil)
	fx.provider.On("GetUserInfo", ctx, "provider-token").Return(profile, nil)
}

func TestOAuthService_AuthorizationURL(t *testing.T) {
	fx := createTestOAuthService(t)

	fx.provider.On("BuildAuthorizationURL").Return("https://accounts.google.com/o/oauth2/v2/auth?client_id=x")

	assert.Equal(t, "https://accounts.google.com/o/oauth2/v2/auth?client_id=x", fx.service.AuthorizationURL())
}

func TestOAuthService_Callback_CreatesAccountForFreshEmail(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)
	profile := &service.OAuthUser{
		ID:    "google-sub-123",
		Email: "fresh@example.com",
		Name:  "Fresh User",
	}

	fx.expectExchange(ctx, profile)
	fx.provider.On("Provider").Return("google")
	fx.userRepo.On("FindByEmail", ctx, profile.Email).
		Return(nil, repository.ErrUserNotFound)
	fx.userRepo.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == profile.Email && u.EmailVerified &&
			u.OAuthID == profile.ID && u.OAuthProvider == "google" && !u.HasPassword()
	})).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)
	fx.tokens.On("IssueSession", ctx, mock.AnythingOfType("uuid.UUID"), sink).
		Return("access-token", nil)
	fx.publisher.On("PublishAuthEvent", ctx, mock.AnythingOfType("*service.AuthEvent")).
		Return(nil).Times(2)

	output, err := fx.service.Callback(ctx, "auth-code", sink)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
}

func TestOAuthService_Callback_MatchingLinkedAccountSignsIn(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)
	user := oauthUser("linked@example.com")
	profile := &service.OAuthUser{
		ID:    user.OAuthID,
		Email: user.Email,
		Name:  user.Name,
	}

	fx.expectExchange(ctx, profile)
	fx.provider.On("Provider").Return("google")
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)
	fx.tokens.On("IssueSession", ctx, user.ID, sink).Return("access-token", nil)
	fx.publisher.On("PublishAuthEvent", ctx, mock.AnythingOfType("*service.AuthEvent")).
		Return(nil).Once()

	output, err := fx.service.Callback(ctx, "auth-code", sink)

	require.NoError(t, err)
	assert.Equal(t, "access-token", output.AccessToken)
}

// An email held by a password account is refused untouched. Automatically
// linking would hand the account to whoever controls the provider identity.
func TestOAuthService_Callback_PasswordAccountEmailRefused(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)
	user := passwordUser("password@example.com")
	profile := &service.OAuthUser{
		ID:    "google-sub-123",
		Email: user.Email,
		Name:  user.Name,
	}

	fx.expectExchange(ctx, profile)
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	_, err := fx.service.Callback(ctx, "auth-code", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthEmailTaken))
}

func TestOAuthService_Callback_DifferentProviderIdentityRefused(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)
	user := oauthUser("linked@example.com")
	profile := &service.OAuthUser{
		ID:    "some-other-sub",
		Email: user.Email,
		Name:  user.Name,
	}

	fx.expectExchange(ctx, profile)
	fx.provider.On("Provider").Return("google")
	fx.userRepo.On("FindByEmail", ctx, user.Email).Return(user, nil)

	_, err := fx.service.Callback(ctx, "auth-code", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthProviderConflict))
}

func TestOAuthService_Callback_EmptyCode(t *testing.T) {
	fx := createTestOAuthService(t)
	sink := mockUC.NewMockRefreshTokenSink(t)

	_, err := fx.service.Callback(context.Background(), "", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthExchangeFailed))
}

func TestOAuthService_Callback_ExchangeRejected(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)

	fx.provider.On("ExchangeCodeForToken", ctx, "auth-code").
		Return("", errors.New("invalid_grant"))

	_, err := fx.service.Callback(ctx, "auth-code", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthExchangeFailed))
}

func TestOAuthService_Callback_IncompleteProfile(t *testing.T) {
	fx := createTestOAuthService(t)
	ctx := context.Background()
	sink := mockUC.NewMockRefreshTokenSink(t)
	profile := &service.OAuthUser{ID: "google-sub-123"} // no email

	fx.expectExchange(ctx, profile)

	_, err := fx.service.Callback(ctx, "auth-code", sink)

	assert.True(t, errors.Is(err, domainerrors.ErrOAuthIncompleteData))
}
