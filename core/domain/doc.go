// Package domain holds the quiz, variant and item records exchanged with the
// backend together with the error taxonomy shared by every layer.
//
// Records decode directly from the backend's JSON. Foreign keys use ref.Ref so
// that the scalar, stringified and nested-object shapes all compare equal.
package domain
