package mocks

import (
	"context"

	"quiz-manager/feature/matching"

	"github.com/stretchr/testify/mock"
)

// Attempts is a mock implementation of matching.AttemptStore.
type Attempts struct {
	mock.Mock
}

func (m *Attempts) Record(ctx context.Context, attempt *matching.Attempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *Attempts) ListByQuiz(ctx context.Context, quizID string, limit int) ([]matching.Attempt, error) {
	args := m.Called(ctx, quizID, limit)
	attempts, _ := args.Get(0).([]matching.Attempt)
	return attempts, args.Error(1)
}
