// Package items edits the items of a variant as a delimited text list.
//
// An Editor keeps the baseline of the variant on display. Saving diffs the
// edited list against a freshly fetched baseline, backs the baseline up to
// object storage when the plan deletes anything, and applies the plan.
// Switching variants supersedes in-flight loads and saves through a
// generation guard.
//
// # Routes
//
//   - GET  /quizzes/:id/variants/:variantId/items
//   - POST /quizzes/:id/variants/:variantId/items/plan
//   - PUT  /quizzes/:id/variants/:variantId/items
//   - GET  /quizzes/:id/variants/:variantId/items/backups
//   - POST /quizzes/:id/variants/:variantId/items/restore
package items
