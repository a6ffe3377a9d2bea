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

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// oauthService implements the OAuthUsecase interface.
type oauthService struct {
	provider  service.OAuthProvider
	txManager repository.TransactionManager
	tokens    usecase.TokenUsecase
	publisher service.EventPublisher
	logger    *slog.Logger
}

// OAuthServiceParams holds dependencies for oauthService, injected by Fx.
type OAuthServiceParams struct {
	fx.In

	Provider  service.OAuthProvider
	TxManager repository.TransactionManager
	Tokens    usecase.TokenUsecase
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewOAuthService is the constructor for oauthService.
func NewOAuthService(params OAuthServiceParams) usecase.OAuthUsecase {
	return &oauthService{
		provider:  params.Provider,
		txManager: params.TxManager,
		tokens:    params.Tokens,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *oauthService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AuthorizationURL returns the provider consent page URL.
func (srv *oauthService) AuthorizationURL() string {
	return srv.provider.BuildAuthorizationURL()
}

// Callback finishes the authorization-code flow. The account linking policy:
// a fresh email creates a provider-only account, an email held by a password
// account is refused untouched, a mismatched provider identity is refused,
// and a matching link signs in.
func (srv *oauthService) Callback(ctx context.Context, code string, sink usecase.RefreshTokenSink) (*usecase.OAuthCallbackOutput, error) {
	if code == "" {
		return nil, domainerrors.ErrOAuthExchangeFailed.WrapMessage("missing authorization code")
	}

	providerToken, err := srv.provider.ExchangeCodeForToken(ctx, code)
	if err != nil {
		srv.log(ctx).Warn("OAuth code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthExchangeFailed.WrapMessage("code exchange rejected by provider")
	}

	profile, err := srv.provider.GetUserInfo(ctx, providerToken)
	if err != nil {
		srv.log(ctx).Warn("OAuth userinfo fetch failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthUserInfoFailed.WrapMessage("userinfo fetch rejected by provider")
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, domainerrors.ErrOAuthIncompleteData.WrapMessage("provider profile lacks subject id or email")
	}

	var user *entity.User
	var created bool
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.NewUserRepository()

		existing, err := userRepo.FindByEmail(ctx, profile.Email)
		if errors.Is(err, repository.ErrUserNotFound) {
			// Fresh email: create a provider-only account. The provider
			// already verified the address.
			user = &entity.User{
				Email:         profile.Email,
				Name:          profile.Name,
				EmailVerified: true,
				OAuthID:       profile.ID,
				OAuthProvider: srv.provider.Provider(),
			}
			created = true

			return userRepo.Create(ctx, user)
		}
		if err != nil {
			return errors.Wrap(err, "failed to look up account for oauth callback")
		}

		if !existing.IsOAuthLinked() {
			return domainerrors.ErrOAuthEmailTaken.WrapMessage("email belongs to a password account")
		}

		if existing.OAuthProvider != srv.provider.Provider() || existing.OAuthID != profile.ID {
			return domainerrors.ErrOAuthProviderConflict.WrapMessage("email linked to a different provider identity")
		}

		user = existing

		return nil
	})
	if err != nil {
		return nil, err
	}

	accessToken, err := srv.tokens.IssueSession(ctx, user.ID, sink)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue session")
	}

	if created {
		srv.log(ctx).Info("OAuth account created", slog.String("userID", user.ID.String()))
	}
	srv.log(ctx).Info("OAuth sign-in", slog.String("userID", user.ID.String()))
	srv.publishSignIn(ctx, user, created)

	return &usecase.OAuthCallbackOutput{AccessToken: accessToken}, nil
}

func (srv *oauthService) publishSignIn(ctx context.Context, user *entity.User, created bool) {
	publish := func(eventType string) {
		event := &service.AuthEvent{
			RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
			Type:       eventType,
			UserID:     user.ID.String(),
			Email:      user.Email,
			OccurredAt: time.Now().UTC(),
		}
		if err := srv.publisher.PublishAuthEvent(ctx, event); err != nil {
			srv.log(ctx).Warn("Failed to publish auth event",
				slog.String("type", eventType), slog.Any("error", err),
			)
		}
	}

	if created {
		publish(service.EventUserSignedUp)
	}
	publish(service.EventOAuthLinked)
}
