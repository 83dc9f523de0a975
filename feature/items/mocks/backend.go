package mocks

import (
	"context"

	"quiz-manager/core/domain"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of items.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) ListItems(ctx context.Context, variantID string) ([]domain.Item, error) {
	args := m.Called(ctx, variantID)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *Backend) CreateItem(ctx context.Context, quizID, variantID, name string) (domain.Item, error) {
	args := m.Called(ctx, quizID, variantID, name)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *Backend) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
