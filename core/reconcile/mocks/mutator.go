package mocks

import (
	"context"

	"quiz-manager/core/domain"

	"github.com/stretchr/testify/mock"
)

// Mutator is a mock implementation of reconcile.Mutator
type Mutator struct {
	mock.Mock
}

func (m *Mutator) CreateItem(ctx context.Context, quizID, variantID, name string) (domain.Item, error) {
	args := m.Called(ctx, quizID, variantID, name)
	if item, ok := args.Get(0).(domain.Item); ok {
		return item, args.Error(1)
	}
	return domain.Item{}, args.Error(1)
}

func (m *Mutator) DeleteItem(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}
