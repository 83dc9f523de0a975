package reconcile

import (
	"context"
	"errors"
	"sort"
	"testing"

	"quiz-manager/core/domain"
	"quiz-manager/core/reconcile/mocks"
	"quiz-manager/core/ref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var target = Target{QuizID: "1", VariantID: "10"}

func created(id, name string) domain.Item {
	return domain.Item{ID: ref.ID(id), Name: name, Variant: ref.NewRef(10), Quiz: ref.NewRef(1)}
}

// TestApply_AllSucceed tests that every action of the plan reaches the mutator.
func TestApply_AllSucceed(t *testing.T) {
	mutator := new(mocks.Mutator)
	mutator.On("DeleteItem", mock.Anything, "3").Return(nil)
	mutator.On("CreateItem", mock.Anything, "1", "10", "D").Return(created("4", "D"), nil)

	plan := Reconcile(items("A", "B", "C"), []string{"A", "B", "D"})
	applier := NewApplier(mutator, 2, zap.NewNop())

	result, err := applier.Apply(context.Background(), target, plan, ReconcileOptions{Confirmed: true})
	require.NoError(t, err)

	assert.True(t, result.OK())
	assert.False(t, result.Partial())
	assert.Equal(t, 2, result.Executed())
	assert.Equal(t, []string{"4"}, ids(result.Created))
	assert.Equal(t, []string{"3"}, ids(result.Deleted))
	mutator.AssertExpectations(t)
}

// TestApply_CollectsFailures tests fire-all semantics: a failing call does not stop the others.
func TestApply_CollectsFailures(t *testing.T) {
	mutator := new(mocks.Mutator)
	mutator.On("DeleteItem", mock.Anything, "1").Return(errors.New("boom"))
	mutator.On("DeleteItem", mock.Anything, "2").Return(nil)
	mutator.On("CreateItem", mock.Anything, "1", "10", "X").Return(created("5", "X"), nil)
	mutator.On("CreateItem", mock.Anything, "1", "10", "Y").Return(nil, errors.New("server error"))

	plan := Reconcile(items("A", "B"), []string{"X", "Y"})
	applier := NewApplier(mutator, 1, zap.NewNop())

	result, err := applier.Apply(context.Background(), target, plan, ReconcileOptions{Confirmed: true})
	require.NoError(t, err)

	assert.False(t, result.OK())
	assert.True(t, result.Partial())
	assert.Len(t, result.Failed, 2)
	mutator.AssertNumberOfCalls(t, "DeleteItem", 2)
	mutator.AssertNumberOfCalls(t, "CreateItem", 2)

	retry := result.RetryPlan()
	assert.Equal(t, []string{"Y"}, retry.ToCreate)
	assert.Equal(t, []string{"1"}, ids(retry.ToDelete))
	assert.Equal(t, 1, retry.Summary.Creates)
	assert.Equal(t, 1, retry.Summary.Deletes)
}

// TestApply_RequiresConfirmation tests that destructive plans are refused without confirmation.
func TestApply_RequiresConfirmation(t *testing.T) {
	mutator := new(mocks.Mutator)
	applier := NewApplier(mutator, 0, nil)

	plan := Reconcile(items("A", "B"), nil)
	result, err := applier.Apply(context.Background(), target, plan, ReconcileOptions{})

	assert.ErrorIs(t, err, ErrConfirmationRequired)
	assert.Nil(t, result)
	mutator.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
}

// TestApply_CreateOnlyNeedsNoConfirmation tests that additive plans run without confirmation.
func TestApply_CreateOnlyNeedsNoConfirmation(t *testing.T) {
	mutator := new(mocks.Mutator)
	mutator.On("CreateItem", mock.Anything, "1", "10", "C").Return(created("3", "C"), nil)
	applier := NewApplier(mutator, 0, nil)

	plan := Reconcile(items("A", "B"), []string{"A", "B", "C"})
	result, err := applier.Apply(context.Background(), target, plan, ReconcileOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Executed())
}

// TestApply_DryRun tests that dry runs never touch the mutator.
func TestApply_DryRun(t *testing.T) {
	mutator := new(mocks.Mutator)
	applier := NewApplier(mutator, 0, nil)

	plan := Reconcile(items("A"), []string{"B"})
	result, err := applier.Apply(context.Background(), target, plan, ReconcileOptions{DryRun: true, Confirmed: true})

	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 0, result.Executed())
	mutator.AssertNotCalled(t, "CreateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestApply_EmptyPlan tests that an empty plan is skipped.
func TestApply_EmptyPlan(t *testing.T) {
	applier := NewApplier(new(mocks.Mutator), 0, nil)

	result, err := applier.Apply(context.Background(), target, Reconcile(items("A"), []string{"A"}), ReconcileOptions{})
	require.NoError(t, err)
	assert.True(t, result.Skipped)
}

// TestApply_CanceledContext tests that a canceled context fails every action instead of aborting silently.
func TestApply_CanceledContext(t *testing.T) {
	mutator := new(mocks.Mutator)
	applier := NewApplier(mutator, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := Reconcile(items("A"), []string{"B", "C"})
	result, err := applier.Apply(ctx, target, plan, ReconcileOptions{Confirmed: true})
	require.NoError(t, err)

	assert.Len(t, result.Failed, 3)
	for _, f := range result.Failed {
		assert.ErrorIs(t, f.Err, context.Canceled)
	}
	mutator.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
}

// TestApplyResult_Baseline tests deriving the next baseline from an applied result.
func TestApplyResult_Baseline(t *testing.T) {
	previous := items("A", "B", "C")
	result := &ApplyResult{
		Deleted: []domain.Item{previous[1]},
		Created: []domain.Item{created("9", "D")},
	}

	next := result.Baseline(previous)
	names := domain.Names(next)
	sort.Strings(names)
	assert.Equal(t, []string{"A", "C", "D"}, names)
}
