package mocks

import (
	"context"

	"quiz-manager/core/domain"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of quiz.Backend.
type Backend struct {
	mock.Mock
}

func (m *Backend) ListQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	args := m.Called(ctx)
	quizzes, _ := args.Get(0).([]domain.Quiz)
	return quizzes, args.Error(1)
}

func (m *Backend) GetQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Quiz), args.Error(1)
}

func (m *Backend) ListVariants(ctx context.Context, quizID string) ([]domain.Variant, error) {
	args := m.Called(ctx, quizID)
	variants, _ := args.Get(0).([]domain.Variant)
	return variants, args.Error(1)
}

func (m *Backend) ListItems(ctx context.Context, variantID string) ([]domain.Item, error) {
	args := m.Called(ctx, variantID)
	items, _ := args.Get(0).([]domain.Item)
	return items, args.Error(1)
}

func (m *Backend) CreateQuiz(ctx context.Context, title string) (domain.Quiz, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(domain.Quiz), args.Error(1)
}

func (m *Backend) CreateVariant(ctx context.Context, quizID, name string) (domain.Variant, error) {
	args := m.Called(ctx, quizID, name)
	return args.Get(0).(domain.Variant), args.Error(1)
}

func (m *Backend) UpdateQuiz(ctx context.Context, id, title string) (domain.Quiz, error) {
	args := m.Called(ctx, id, title)
	return args.Get(0).(domain.Quiz), args.Error(1)
}

func (m *Backend) DeleteQuiz(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
