// Package service contains testify mocks for the domain service interfaces.
package service

import (
	"context"
	"time"

	"amora/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockTokenSigner mocks service.TokenSigner.
type MockTokenSigner struct {
	mock.Mock
}

func NewMockTokenSigner(t mockConstructorTestingT) *MockTokenSigner {
	m := &MockTokenSigner{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenSigner) SignAccessToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *MockTokenSigner) SignRefreshToken(userID uuid.UUID) (string, error) {
	args := m.Called(userID)

	return args.String(0), args.Error(1)
}

func (m *MockTokenSigner) SignEmailVerificationToken(email string) (string, error) {
	args := m.Called(email)

	return args.String(0), args.Error(1)
}

func (m *MockTokenSigner) SignPasswordResetToken(email string) (string, error) {
	args := m.Called(email)

	return args.String(0), args.Error(1)
}

func (m *MockTokenSigner) VerifyAccessToken(token string) (*service.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.UserClaims), args.Error(1)
}

func (m *MockTokenSigner) VerifyRefreshToken(token string) (*service.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.UserClaims), args.Error(1)
}

func (m *MockTokenSigner) VerifyEmailVerificationToken(token string) (*service.EmailClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.EmailClaims), args.Error(1)
}

func (m *MockTokenSigner) VerifyPasswordResetToken(token string) (*service.EmailClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.EmailClaims), args.Error(1)
}

func (m *MockTokenSigner) RefreshTokenTTL() time.Duration {
	args := m.Called()

	return args.Get(0).(time.Duration)
}

// MockPasswordHasher mocks service.PasswordHasher.
type MockPasswordHasher struct {
	mock.Mock
}

func NewMockPasswordHasher(t mockConstructorTestingT) *MockPasswordHasher {
	m := &MockPasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Check(password, hash string) bool {
	args := m.Called(password, hash)

	return args.Bool(0)
}

// MockMailer mocks service.Mailer.
type MockMailer struct {
	mock.Mock
}

func NewMockMailer(t mockConstructorTestingT) *MockMailer {
	m := &MockMailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockMailer) SendEmailVerificationLink(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)

	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetLink(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)

	return args.Error(0)
}

// MockEventPublisher mocks service.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func NewMockEventPublisher(t mockConstructorTestingT) *MockEventPublisher {
	m := &MockEventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockEventPublisher) PublishAuthEvent(ctx context.Context, event *service.AuthEvent) error {
	args := m.Called(ctx, event)

	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()

	return args.Error(0)
}

// MockOAuthProvider mocks service.OAuthProvider.
type MockOAuthProvider struct {
	mock.Mock
}

func NewMockOAuthProvider(t mockConstructorTestingT) *MockOAuthProvider {
	m := &MockOAuthProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockOAuthProvider) BuildAuthorizationURL() string {
	args := m.Called()

	return args.String(0)
}

func (m *MockOAuthProvider) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)

	return args.String(0), args.Error(1)
}

func (m *MockOAuthProvider) GetUserInfo(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.OAuthUser), args.Error(1)
}

func (m *MockOAuthProvider) Provider() string {
	args := m.Called()

	return args.String(0)
}
