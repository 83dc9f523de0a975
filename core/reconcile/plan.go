package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"quiz-manager/core/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of in-flight operations per Apply.
const DefaultConcurrency = 4

// Applier executes plans against a Mutator.
type Applier struct {
	mutator     Mutator
	concurrency int
	logger      *zap.Logger
}

// NewApplier creates an applier. A concurrency below 1 uses DefaultConcurrency.
func NewApplier(mutator Mutator, concurrency int, logger *zap.Logger) *Applier {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{mutator: mutator, concurrency: concurrency, logger: logger}
}

// Apply executes every action of the plan against the target variant.
//
// Deletions and creations are dispatched as independent operations and all of
// them are attempted regardless of individual failures. The returned result
// lists exactly which actions failed; the remote variant may be left
// partially reconciled. Apply never retries.
//
// A dry run returns a skipped result. A plan that deletes items is refused
// with ErrConfirmationRequired unless opts.Confirmed is set.
func (a *Applier) Apply(ctx context.Context, target Target, plan *Plan, opts ReconcileOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Target:  target,
		Created: []domain.Item{},
		Deleted: []domain.Item{},
		Failed:  []FailedAction{},
	}

	if plan == nil || plan.IsEmpty() || opts.DryRun {
		result.Skipped = true
		return result, nil
	}

	if plan.Destructive() && !opts.Confirmed {
		return nil, ErrConfirmationRequired
	}

	actions := plan.Actions()
	a.logger.Info("Applying reconciliation plan",
		zap.String("quiz_id", target.QuizID),
		zap.String("variant_id", target.VariantID),
		zap.Int("creates", len(plan.ToCreate)),
		zap.Int("deletes", len(plan.ToDelete)),
	)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(a.concurrency)

	for _, action := range actions {
		action := action
		g.Go(func() error {
			created, err := a.execute(ctx, target, action)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.logger.Warn("Reconcile action failed",
					zap.String("type", string(action.Type)),
					zap.String("name", action.Name),
					zap.Error(err),
				)
				result.Failed = append(result.Failed, FailedAction{Action: action, Err: err, Reason: err.Error()})
				return nil
			}
			switch action.Type {
			case ActionCreateItem:
				result.Created = append(result.Created, created)
			case ActionDeleteItem:
				result.Deleted = append(result.Deleted, action.Item)
			}
			return nil
		})
	}
	// Operations never return errors to the group; failures are collected.
	_ = g.Wait()

	a.logger.Info("Reconciliation plan applied",
		zap.String("variant_id", target.VariantID),
		zap.Int("executed", result.Executed()),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (a *Applier) execute(ctx context.Context, target Target, action Action) (domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return domain.Item{}, err
	}
	switch action.Type {
	case ActionCreateItem:
		return a.mutator.CreateItem(ctx, target.QuizID, target.VariantID, action.Name)
	case ActionDeleteItem:
		id := action.Item.ID.String()
		if id == "" {
			return domain.Item{}, errors.New("baseline item has no id")
		}
		return domain.Item{}, a.mutator.DeleteItem(ctx, id)
	default:
		return domain.Item{}, fmt.Errorf("unknown action type %q", action.Type)
	}
}
