package mocks

import (
	"context"

	"quiz-manager/feature/quiz"

	"github.com/stretchr/testify/mock"
)

// Loader is a mock implementation of matching.AggregateLoader.
type Loader struct {
	mock.Mock
}

func (m *Loader) Load(ctx context.Context, quizID string) (*quiz.Aggregate, error) {
	args := m.Called(ctx, quizID)
	agg, _ := args.Get(0).(*quiz.Aggregate)
	return agg, args.Error(1)
}
