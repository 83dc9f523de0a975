package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a referenced quiz, variant or item is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates malformed input, e.g. an item name that is empty after trimming.
	ErrValidation = errors.New("validation failed")
	// ErrAuth is returned on 401 responses that could not be recovered by a token refresh.
	ErrAuth = errors.New("authentication required")
	// ErrNetwork wraps transport-level failures talking to the backend.
	ErrNetwork = errors.New("network error")
)

// ValidationError lists the offending values of a rejected input.
type ValidationError struct {
	Field     string
	Reason    string
	Offending []string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Field, e.Reason)
	if len(e.Offending) > 0 {
		msg += " (" + strings.Join(e.Offending, ", ") + ")"
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// PartialLoadWarning records a non-fatal failure loading one sub-resource.
// It is surfaced as metadata on an aggregate, never returned as an error.
type PartialLoadWarning struct {
	VariantID string `json:"variant_id"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

func (w PartialLoadWarning) String() string {
	return fmt.Sprintf("variant %s: %s", w.VariantID, w.Message)
}
