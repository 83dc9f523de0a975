// Package reconcile keeps a variant's remote items in step with a user's
// free-text edit of that list.
//
// The work is split in two:
//
//  1. Reconcile: a pure multiset diff between the baseline (the last
//     authoritative item list fetched for the variant) and the desired names
//     parsed from the edited text. Unchanged items are never deleted and
//     recreated, so their ids and any server-side metadata survive a save.
//
//  2. Applier: dispatches the plan's creates and deletes through a Mutator
//     with bounded concurrency. Every operation is attempted; failures are
//     collected into the ApplyResult so the caller can retry only those.
//
// # Usage Example
//
//	names := reconcile.ParseDesired(text, reconcile.DelimiterComma)
//	if err := reconcile.ValidateNames(names); err != nil {
//	    return err
//	}
//	plan := reconcile.Reconcile(baseline, names)
//
//	applier := reconcile.NewApplier(client, 4, logger)
//	result, err := applier.Apply(ctx, reconcile.Target{QuizID: "1", VariantID: "3"}, plan,
//	    reconcile.ReconcileOptions{Confirmed: true})
//	if err == nil && !result.OK() {
//	    retry := result.RetryPlan()
//	    ...
//	}
//
// An empty desired list produces a plan that deletes the whole variant.
// Apply refuses destructive plans unless the caller confirmed them.
package reconcile
