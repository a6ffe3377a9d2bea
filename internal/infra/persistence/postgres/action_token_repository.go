// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"amora/internal/domain/entity"
	domainerrors "amora/internal/domain/errors"
	"amora/internal/domain/repository"
	"amora/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// emailOnConflict replaces the pending token when one already exists for
// the address. Both action token tables key on email.
func emailOnConflict() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "created_at"}),
	}
}

// emailVerificationTokenRepository implements the domain.EmailVerificationTokenRepository interface.
type emailVerificationTokenRepository struct {
	db *gorm.DB
}

// NewEmailVerificationTokenRepository is the constructor for emailVerificationTokenRepository.
func NewEmailVerificationTokenRepository(db *gorm.DB) repository.EmailVerificationTokenRepository {
	return &emailVerificationTokenRepository{db: db}
}

// Upsert stores the token for the email, replacing any pending one.
func (repo *emailVerificationTokenRepository) Upsert(ctx context.Context, token *entity.EmailVerificationToken) error {
	tokenM := &model.EmailVerificationTokenModel{
		Email: token.Email,
		Token: token.Token,
	}

	err := repo.db.WithContext(ctx).Clauses(emailOnConflict()).Create(tokenM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert email verification token")
	}

	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByToken retrieves the record matching the raw token string.
func (repo *emailVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.EmailVerificationToken, error) {
	var tokenM model.EmailVerificationTokenModel
	if err := repo.db.WithContext(ctx).Where("token = ?", token).First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrActionTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find email verification token")
	}

	return &entity.EmailVerificationToken{
		Email:     tokenM.Email,
		Token:     tokenM.Token,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

// DeleteByToken removes the record matching the raw token string. Zero rows
// deleted means another consumer burned the token first; reporting that keeps
// the token single-use even when two redemption attempts race.
func (repo *emailVerificationTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.EmailVerificationTokenModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete email verification token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrActionTokenNotFound
	}

	return nil
}

// passwordResetTokenRepository implements the domain.PasswordResetTokenRepository interface.
type passwordResetTokenRepository struct {
	db *gorm.DB
}

// NewPasswordResetTokenRepository is the constructor for passwordResetTokenRepository.
func NewPasswordResetTokenRepository(db *gorm.DB) repository.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{db: db}
}

// Upsert stores the token for the email, replacing any pending one.
func (repo *passwordResetTokenRepository) Upsert(ctx context.Context, token *entity.PasswordResetToken) error {
	tokenM := &model.PasswordResetTokenModel{
		Email: token.Email,
		Token: token.Token,
	}

	err := repo.db.WithContext(ctx).Clauses(emailOnConflict()).Create(tokenM).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to upsert password reset token")
	}

	token.CreatedAt = tokenM.CreatedAt

	return nil
}

// FindByToken retrieves the record matching the raw token string.
func (repo *passwordResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var tokenM model.PasswordResetTokenModel
	if err := repo.db.WithContext(ctx).Where("token = ?", token).First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrActionTokenNotFound
		}

		return nil, errors.Wrap(err, "failed to find password reset token")
	}

	return &entity.PasswordResetToken{
		Email:     tokenM.Email,
		Token:     tokenM.Token,
		CreatedAt: tokenM.CreatedAt,
	}, nil
}

// DeleteByToken removes the record matching the raw token string. Same
// race rule as the verification token repository: zero rows deleted is
// reported as ErrActionTokenNotFound.
func (repo *passwordResetTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	result := repo.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.PasswordResetTokenModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete password reset token")
	}
	if result.RowsAffected == 0 {
		return repository.ErrActionTokenNotFound
	}

	return nil
}
