package mocks

import (
	"context"

	"quiz-manager/core/api"
	"quiz-manager/core/domain"
	"quiz-manager/core/tokens"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of auth.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) Login(ctx context.Context, creds domain.Credentials) (domain.TokenPair, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(domain.TokenPair), args.Error(1)
}

func (m *Backend) Register(ctx context.Context, reg domain.Registration) (api.RegisteredUser, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(api.RegisteredUser), args.Error(1)
}

func (m *Backend) Logout(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Backend) Tokens() tokens.Store {
	args := m.Called()
	return args.Get(0).(tokens.Store)
}
