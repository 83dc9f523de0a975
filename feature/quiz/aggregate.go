package quiz

import (
	"context"
	"fmt"

	"quiz-manager/core/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Backend is the subset of the REST client the quiz feature needs.
type Backend interface {
	ListQuizzes(ctx context.Context) ([]domain.Quiz, error)
	GetQuiz(ctx context.Context, id string) (domain.Quiz, error)
	ListVariants(ctx context.Context, quizID string) ([]domain.Variant, error)
	ListItems(ctx context.Context, variantID string) ([]domain.Item, error)
	CreateQuiz(ctx context.Context, title string) (domain.Quiz, error)
	CreateVariant(ctx context.Context, quizID, name string) (domain.Variant, error)
	UpdateQuiz(ctx context.Context, id, title string) (domain.Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
}

const (
	// SourceFetched marks an aggregate built from list calls.
	SourceFetched = "fetched"
	// SourceSupplied marks an aggregate built from nested quiz data.
	SourceSupplied = "supplied"
)

// Aggregate is a quiz with its variants and their items, scoped to the quiz.
// Aggregates returned by Loader may be shared between callers and must not
// be modified.
type Aggregate struct {
	Quiz           domain.Quiz                 `json:"quiz"`
	Variants       []domain.Variant            `json:"variants"`
	ItemsByVariant map[string][]domain.Item    `json:"items_by_variant"`
	Warnings       []domain.PartialLoadWarning `json:"warnings"`
	Source         string                      `json:"source"`
}

// Items returns the items of one variant.
func (a *Aggregate) Items(variantID string) []domain.Item {
	return a.ItemsByVariant[variantID]
}

// AllItems returns every item in variant order.
func (a *Aggregate) AllItems() []domain.Item {
	var all []domain.Item
	for _, v := range a.Variants {
		all = append(all, a.ItemsByVariant[v.ID.String()]...)
	}
	return all
}

// Variant looks up a variant by id.
func (a *Aggregate) Variant(variantID string) (domain.Variant, bool) {
	for _, v := range a.Variants {
		if v.ID.String() == variantID {
			return v, true
		}
	}
	return domain.Variant{}, false
}

// Partial reports whether any variant failed to load.
func (a *Aggregate) Partial() bool {
	return len(a.Warnings) > 0
}

// Loader assembles quiz aggregates from the backend.
type Loader struct {
	backend     Backend
	concurrency int
	logger      *zap.Logger
	group       singleflight.Group
}

// NewLoader creates a loader. concurrency bounds parallel item fetches.
func NewLoader(backend Backend, concurrency int, logger *zap.Logger) *Loader {
	if concurrency < 1 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{backend: backend, concurrency: concurrency, logger: logger}
}

// Load fetches the quiz, its variants and every variant's items.
//
// A missing quiz fails with domain.ErrNotFound. Nested variants and items in
// the quiz payload are used when present. A failure fetching one variant's
// items leaves that variant empty and records a PartialLoadWarning.
// Concurrent loads of the same quiz share one fetch.
func (l *Loader) Load(ctx context.Context, quizID string) (*Aggregate, error) {
	v, err, _ := l.group.Do(quizID, func() (any, error) {
		return l.load(ctx, quizID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Aggregate), nil
}

func (l *Loader) load(ctx context.Context, quizID string) (*Aggregate, error) {
	q, err := l.backend.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("quiz %s: %w", quizID, err)
	}
	if q.ID.String() != "" && q.ID.String() != quizID {
		return nil, fmt.Errorf("quiz %s: backend returned quiz %s: %w", quizID, q.ID, domain.ErrNotFound)
	}

	agg := newAggregate(q)
	var variants []domain.Variant
	if len(q.Variants) > 0 {
		agg.Source = SourceSupplied
		variants = scopeVariants(quizID, q.Variants, true)
	} else {
		fetched, err := l.backend.ListVariants(ctx, quizID)
		if err != nil {
			return nil, fmt.Errorf("variants of quiz %s: %w", quizID, err)
		}
		variants = scopeVariants(quizID, fetched, false)
	}

	items := make([][]domain.Item, len(variants))
	warnings := make([]*domain.PartialLoadWarning, len(variants))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, variant := range variants {
		vid := variant.ID.String()
		if variant.Items != nil {
			items[i] = scopeItems(quizID, vid, variant.Items, true)
			continue
		}
		g.Go(func() error {
			fetched, err := l.backend.ListItems(ctx, vid)
			if err != nil {
				l.logger.Warn("Failed to load variant items",
					zap.String("quiz_id", quizID),
					zap.String("variant_id", vid),
					zap.Error(err),
				)
				warnings[i] = &domain.PartialLoadWarning{VariantID: vid, Message: err.Error(), Err: err}
				items[i] = []domain.Item{}
				return nil
			}
			items[i] = scopeItems(quizID, vid, fetched, false)
			return nil
		})
	}
	// Item failures become warnings; the group never fails.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, variant := range variants {
		variant.Items = nil
		agg.Variants = append(agg.Variants, variant)
		agg.ItemsByVariant[variant.ID.String()] = items[i]
		if warnings[i] != nil {
			agg.Warnings = append(agg.Warnings, *warnings[i])
		}
	}

	l.logger.Debug("Quiz loaded",
		zap.String("quiz_id", quizID),
		zap.String("source", agg.Source),
		zap.Int("variants", len(agg.Variants)),
		zap.Int("warnings", len(agg.Warnings)),
	)
	return agg, nil
}

// FromSupplied builds an aggregate from quiz data already held by the
// caller, applying the same scoping as Load. Variants without nested items
// are empty.
func FromSupplied(quizID string, q domain.Quiz) (*Aggregate, error) {
	if q.ID.String() != quizID {
		return nil, fmt.Errorf("quiz %s: supplied data is for quiz %q: %w", quizID, q.ID, domain.ErrNotFound)
	}
	agg := newAggregate(q)
	agg.Source = SourceSupplied
	for _, variant := range scopeVariants(quizID, q.Variants, true) {
		vid := variant.ID.String()
		agg.ItemsByVariant[vid] = scopeItems(quizID, vid, variant.Items, true)
		variant.Items = nil
		agg.Variants = append(agg.Variants, variant)
	}
	return agg, nil
}

func newAggregate(q domain.Quiz) *Aggregate {
	q.Variants = nil
	return &Aggregate{
		Quiz:           q,
		Variants:       []domain.Variant{},
		ItemsByVariant: map[string][]domain.Item{},
		Warnings:       []domain.PartialLoadWarning{},
		Source:         SourceFetched,
	}
}

// scopeVariants keeps the variants that reference quizID. Nested variants
// without a quiz reference belong to the quiz they are nested in.
func scopeVariants(quizID string, variants []domain.Variant, nested bool) []domain.Variant {
	out := make([]domain.Variant, 0, len(variants))
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		id := v.ID.String()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		unreferenced := v.Quiz.IsZero() && v.QuizID.IsZero()
		if (nested && unreferenced) || v.BelongsTo(quizID) {
			seen[id] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// scopeItems keeps the items that belong to quizID and variantID. Nested
// items without any reference belong to the variant they are nested in.
func scopeItems(quizID, variantID string, items []domain.Item, nested bool) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, item := range items {
		unreferenced := item.Variant.IsZero() && item.QuizRef().IsZero()
		if (nested && unreferenced) || item.BelongsTo(quizID, variantID) {
			out = append(out, item)
		}
	}
	return out
}
