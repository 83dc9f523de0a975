package reconcile

import (
	"errors"

	"quiz-manager/core/domain"
)

// ErrConfirmationRequired is returned by Apply when a plan would delete items
// and the caller has not confirmed it.
var ErrConfirmationRequired = errors.New("plan deletes items and requires confirmation")

// Plan is the minimal set of operations that turns a variant's baseline into
// the desired item list. It is a computed value and is never persisted.
type Plan struct {
	// ToCreate holds one name per surplus desired occurrence, in desired order.
	ToCreate []string `json:"to_create"`

	// ToDelete holds one baseline item per surplus original occurrence, in baseline order.
	ToDelete []domain.Item `json:"to_delete"`

	// Kept holds the baseline items left untouched.
	Kept []domain.Item `json:"kept"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Original is the number of baseline items.
	Original int `json:"original"`

	// Desired is the number of desired names.
	Desired int `json:"desired"`

	// Kept counts baseline items that survive unchanged.
	Kept int `json:"kept"`

	// Creates counts planned create operations.
	Creates int `json:"creates"`

	// Deletes counts planned delete operations.
	Deletes int `json:"deletes"`
}

// IsEmpty reports whether the plan has nothing to do.
func (p *Plan) IsEmpty() bool {
	return len(p.ToCreate) == 0 && len(p.ToDelete) == 0
}

// ClearsAll reports whether the plan empties a non-empty variant.
func (p *Plan) ClearsAll() bool {
	return p.Summary.Original > 0 && p.Summary.Desired == 0
}

// Destructive reports whether applying the plan deletes anything.
func (p *Plan) Destructive() bool {
	return len(p.ToDelete) > 0
}

// Actions flattens the plan into individual operations, deletions first.
func (p *Plan) Actions() []Action {
	actions := make([]Action, 0, len(p.ToDelete)+len(p.ToCreate))
	for _, item := range p.ToDelete {
		actions = append(actions, Action{Type: ActionDeleteItem, Name: item.Name, Item: item})
	}
	for _, name := range p.ToCreate {
		actions = append(actions, Action{Type: ActionCreateItem, Name: name})
	}
	return actions
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreateItem creates an item in the target variant.
	ActionCreateItem ActionType = "create_item"
	// ActionDeleteItem deletes a baseline item.
	ActionDeleteItem ActionType = "delete_item"
)

// Action represents a single planned mutation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Name is the item name being created or deleted.
	Name string `json:"name"`

	// Item is the baseline item for delete actions.
	Item domain.Item `json:"item,omitempty"`
}

// Target identifies the variant a plan is applied to.
type Target struct {
	QuizID    string `json:"quiz_id"`
	VariantID string `json:"variant_id"`
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed destructive actions.
	// Plans that delete items are refused without it.
	Confirmed bool
}

// FailedAction is an operation that the backend rejected or never received.
type FailedAction struct {
	Action Action `json:"action"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

// ApplyResult reports what happened to every action of an applied plan.
type ApplyResult struct {
	// Target is the variant the plan was applied to.
	Target Target `json:"target"`

	// Created holds the items the backend created.
	Created []domain.Item `json:"created"`

	// Deleted holds the baseline items that were deleted.
	Deleted []domain.Item `json:"deleted"`

	// Failed holds every action that did not succeed.
	Failed []FailedAction `json:"failed"`

	// Skipped is true when nothing was executed (dry run or empty plan).
	Skipped bool `json:"skipped"`
}

// Executed returns the number of operations that succeeded.
func (r *ApplyResult) Executed() int {
	return len(r.Created) + len(r.Deleted)
}

// Partial reports whether some but not all operations failed, leaving the
// remote variant partially reconciled.
func (r *ApplyResult) Partial() bool {
	return len(r.Failed) > 0 && r.Executed() > 0
}

// OK reports whether every operation succeeded.
func (r *ApplyResult) OK() bool {
	return len(r.Failed) == 0
}

// RetryPlan rebuilds a plan holding exactly the failed operations.
// Retrying is a caller decision; a blind retry of a create whose response
// was lost can duplicate an item.
func (r *ApplyResult) RetryPlan() *Plan {
	plan := &Plan{}
	for _, f := range r.Failed {
		switch f.Action.Type {
		case ActionCreateItem:
			plan.ToCreate = append(plan.ToCreate, f.Action.Name)
		case ActionDeleteItem:
			plan.ToDelete = append(plan.ToDelete, f.Action.Item)
		}
	}
	plan.Summary = PlanSummary{
		Creates: len(plan.ToCreate),
		Deletes: len(plan.ToDelete),
	}
	return plan
}

// Baseline derives the variant's item list after the result is applied to
// the given baseline: deleted items removed, created items appended.
func (r *ApplyResult) Baseline(previous []domain.Item) []domain.Item {
	deleted := make(map[string]struct{}, len(r.Deleted))
	for _, item := range r.Deleted {
		deleted[item.ID.String()] = struct{}{}
	}
	next := make([]domain.Item, 0, len(previous)+len(r.Created))
	for _, item := range previous {
		if _, gone := deleted[item.ID.String()]; gone {
			continue
		}
		next = append(next, item)
	}
	return append(next, r.Created...)
}
