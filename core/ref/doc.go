// Package ref canonicalizes foreign-key references.
//
// The quiz backend is inconsistent about how it serializes relationships: an
// item's variant may arrive as a bare number, as a stringified number, or as
// a nested object carrying an "id" field. Some payloads also spell the quiz
// reference as "quiz_id". Listing endpoints are not guaranteed to be scoped
// server-side, so callers filter every result through Matches before use.
//
// # Usage
//
//	ref.Matches(5, 5)                          // true
//	ref.Matches(map[string]any{"id": 5}, "5")  // true
//	ref.Matches("5", 5)                        // true
//	ref.Matches(6, 5)                          // false
//
// Ref and ID are JSON types that accept every wire shape and normalize it on
// decode, so domain structs can compare references without type switches.
package ref
