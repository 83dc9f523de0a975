package reconcile

import (
	"context"

	"quiz-manager/core/domain"
)

// Mutator performs the remote writes of an applied plan.
// The REST client implements it; tests use a mock.
type Mutator interface {
	// CreateItem creates an item named name in the variant and returns the
	// record the backend stored.
	CreateItem(ctx context.Context, quizID, variantID, name string) (domain.Item, error)

	// DeleteItem deletes the item with the given id.
	DeleteItem(ctx context.Context, itemID string) error
}
