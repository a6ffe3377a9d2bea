// Package usecase contains testify mocks for the usecase layer interfaces.
package usecase

import (
	"context"

	"amora/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockConstructorTestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockTokenUsecase mocks usecase.TokenUsecase.
type MockTokenUsecase struct {
	mock.Mock
}

func NewMockTokenUsecase(t mockConstructorTestingT) *MockTokenUsecase {
	m := &MockTokenUsecase{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenUsecase) IssueSession(ctx context.Context, userID uuid.UUID, sink usecase.RefreshTokenSink) (string, error) {
	args := m.Called(ctx, userID, sink)

	return args.String(0), args.Error(1)
}

func (m *MockTokenUsecase) RevokeSession(ctx context.Context, userID uuid.UUID, sink usecase.RefreshTokenSink) error {
	args := m.Called(ctx, userID, sink)

	return args.Error(0)
}

func (m *MockTokenUsecase) RotateSession(ctx context.Context, presented string, sink usecase.RefreshTokenSink) (string, error) {
	args := m.Called(ctx, presented, sink)

	return args.String(0), args.Error(1)
}

func (m *MockTokenUsecase) IssueEmailVerificationToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)

	return args.String(0), args.Error(1)
}

func (m *MockTokenUsecase) ConsumeEmailVerificationToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)

	return args.String(0), args.Error(1)
}

func (m *MockTokenUsecase) IssuePasswordResetToken(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)

	return args.String(0), args.Error(1)
}

func (m *MockTokenUsecase) ConsumePasswordResetToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)

	return args.String(0), args.Error(1)
}

// MockRefreshTokenSink mocks usecase.RefreshTokenSink.
type MockRefreshTokenSink struct {
	mock.Mock
}

func NewMockRefreshTokenSink(t mockConstructorTestingT) *MockRefreshTokenSink {
	m := &MockRefreshTokenSink{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockRefreshTokenSink) SetRefreshToken(token string) {
	m.Called(token)
}

func (m *MockRefreshTokenSink) ClearRefreshToken() {
	m.Called()
}

func (m *MockRefreshTokenSink) RefreshToken() string {
	args := m.Called()

	return args.String(0)
}
