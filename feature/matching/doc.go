// Package matching implements the item-to-variant matching game.
//
// Engine is the per-game state machine: items start unmatched, a player
// selects one and assigns it to a variant (or back to the pool), and
// Validate scores the placement against the variant each item was loaded
// from. Service keeps engines per session, loads them through the quiz
// aggregate loader and records each validation as an Attempt row.
package matching
