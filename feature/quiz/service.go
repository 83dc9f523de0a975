package quiz

import (
	"context"
	"fmt"
	"strings"

	"quiz-manager/core/domain"

	"go.uber.org/zap"
)

// Service exposes quiz reads and quiz creation.
type Service struct {
	backend Backend
	loader  *Loader
	logger  *zap.Logger
}

// NewService creates a quiz service.
func NewService(backend Backend, loader *Loader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, loader: loader, logger: logger}
}

// List returns the quizzes visible to the backend session.
func (s *Service) List(ctx context.Context) ([]domain.Quiz, error) {
	return s.backend.ListQuizzes(ctx)
}

// Get loads the full aggregate of one quiz.
func (s *Service) Get(ctx context.Context, quizID string) (*Aggregate, error) {
	agg, err := s.loader.Load(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if agg.Partial() {
		s.logger.Warn("Quiz loaded with missing variants",
			zap.String("quiz_id", quizID),
			zap.Int("warnings", len(agg.Warnings)),
		)
	}
	return agg, nil
}

// Loader returns the aggregate loader shared with other features.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Create creates a quiz and its variants in order. Variant names are
// trimmed and must be unique. When a variant fails the quiz and the
// variants created so far are returned together with the error.
func (s *Service) Create(ctx context.Context, title string, variants []string) (*Aggregate, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	names, err := variantNames(variants)
	if err != nil {
		return nil, err
	}

	q, err := s.backend.CreateQuiz(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}
	quizID := q.ID.String()
	agg := &Aggregate{
		Quiz:           q,
		Variants:       []domain.Variant{},
		ItemsByVariant: map[string][]domain.Item{},
		Warnings:       []domain.PartialLoadWarning{},
		Source:         SourceFetched,
	}

	for _, name := range names {
		v, err := s.backend.CreateVariant(ctx, quizID, name)
		if err != nil {
			return agg, fmt.Errorf("failed to create variant %q of quiz %s: %w", name, quizID, err)
		}
		agg.Variants = append(agg.Variants, v)
		agg.ItemsByVariant[v.ID.String()] = []domain.Item{}
	}

	s.logger.Info("Quiz created",
		zap.String("quiz_id", quizID),
		zap.Int("variants", len(agg.Variants)),
	)
	return agg, nil
}

// Rename changes the title of a quiz.
func (s *Service) Rename(ctx context.Context, quizID, title string) (domain.Quiz, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Quiz{}, &domain.ValidationError{Field: "title", Reason: "title is required"}
	}
	q, err := s.backend.UpdateQuiz(ctx, quizID, title)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("failed to rename quiz %s: %w", quizID, err)
	}
	return q, nil
}

// Delete deletes a quiz together with its variants and items.
func (s *Service) Delete(ctx context.Context, quizID string) error {
	if err := s.backend.DeleteQuiz(ctx, quizID); err != nil {
		return fmt.Errorf("failed to delete quiz %s: %w", quizID, err)
	}
	s.logger.Info("Quiz deleted", zap.String("quiz_id", quizID))
	return nil
}

func variantNames(variants []string) ([]string, error) {
	names := make([]string, 0, len(variants))
	seen := make(map[string]struct{}, len(variants))
	var dupes []string
	for _, v := range variants {
		name := strings.TrimSpace(v)
		if name == "" {
			return nil, &domain.ValidationError{Field: "variants", Reason: "variant names must not be empty"}
		}
		if _, ok := seen[name]; ok {
			dupes = append(dupes, name)
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if len(dupes) > 0 {
		return nil, &domain.ValidationError{Field: "variants", Reason: "duplicate variant names", Offending: dupes}
	}
	return names, nil
}
