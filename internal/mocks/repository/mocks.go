// Package repository contains testify mocks for the domain repository
// interfaces.
package repository

import (
	"context"

	"amora/internal/domain/entity"
	"amora/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// StubTransactionManager runs the transactional function directly against a
// fixed factory, standing in for a real transaction in tests. The function's
// error propagates exactly as a committed or rolled-back transaction would
// surface it.
type StubTransactionManager struct {
	Factory repository.RepositoryFactory
}

func (s *StubTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(s.Factory)
}

// StubRepositoryFactory hands out fixed repositories.
type StubRepositoryFactory struct {
	UserRepo        repository.UserRepository
	RefreshRepo     repository.RefreshTokenRepository
	VerifyTokenRepo repository.EmailVerificationTokenRepository
	ResetTokenRepo  repository.PasswordResetTokenRepository
}

func (s *StubRepositoryFactory) NewUserRepository() repository.UserRepository {
	return s.UserRepo
}

func (s *StubRepositoryFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return s.RefreshRepo
}

func (s *StubRepositoryFactory) NewEmailVerificationTokenRepository() repository.EmailVerificationTokenRepository {
	return s.VerifyTokenRepo
}

func (s *StubRepositoryFactory) NewPasswordResetTokenRepository() repository.PasswordResetTokenRepository {
	return s.ResetTokenRepo
}

// MockUserRepository mocks repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t mockConstructorTestingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

// MockRefreshTokenRepository mocks repository.RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mock.Mock
}

func NewMockRefreshTokenRepository(t mockConstructorTestingT) *MockRefreshTokenRepository {
	m := &MockRefreshTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRefreshTokenRepository) Upsert(ctx context.Context, token *entity.RefreshToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.RefreshToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)

	return args.Error(0)
}

// MockEmailVerificationTokenRepository mocks repository.EmailVerificationTokenRepository.
type MockEmailVerificationTokenRepository struct {
	mock.Mock
}

func NewMockEmailVerificationTokenRepository(t mockConstructorTestingT) *MockEmailVerificationTokenRepository {
	m := &MockEmailVerificationTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEmailVerificationTokenRepository) Upsert(ctx context.Context, token *entity.EmailVerificationToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockEmailVerificationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.EmailVerificationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.EmailVerificationToken), args.Error(1)
}

func (m *MockEmailVerificationTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

// MockPasswordResetTokenRepository mocks repository.PasswordResetTokenRepository.
type MockPasswordResetTokenRepository struct {
	mock.Mock
}

func NewMockPasswordResetTokenRepository(t mockConstructorTestingT) *MockPasswordResetTokenRepository {
	m := &MockPasswordResetTokenRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordResetTokenRepository) Upsert(ctx context.Context, token *entity.PasswordResetToken) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}

func (m *MockPasswordResetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.PasswordResetToken), args.Error(1)
}

func (m *MockPasswordResetTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)

	return args.Error(0)
}
