package ref

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Identifier is implemented by values that carry their own entity id.
type Identifier interface {
	RefID() string
}

// Key returns the canonical comparable key for a foreign-key value.
// It accepts a scalar id, a stringified id, an object carrying an "id" field
// (map, Ref, or Identifier) and pointers to those. ok is false when no key
// can be derived.
func Key(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case Ref:
		return v.Key()
	case *Ref:
		if v == nil {
			return "", false
		}
		return v.Key()
	case *ID:
		if v == nil {
			return "", false
		}
		return nonEmpty(string(*v))
	case Identifier:
		return nonEmpty(v.RefID())
	case map[string]any:
		id, ok := v["id"]
		if !ok {
			return "", false
		}
		return scalarKey(id)
	case map[string]string:
		id, ok := v["id"]
		if !ok {
			return "", false
		}
		return nonEmpty(id)
	default:
		return scalarKey(v)
	}
}

// Matches reports whether value denotes the same entity as candidate.
// Both sides are coerced to their canonical string form; a shape that cannot
// be coerced never matches.
func Matches(value, candidate any) bool {
	want, ok := Key(candidate)
	if !ok {
		return false
	}
	got, ok := Key(value)
	if !ok {
		return false
	}
	return got == want
}

func scalarKey(v any) (string, bool) {
	s, ok := ToString(v)
	if !ok {
		return "", false
	}
	return nonEmpty(s)
}

func nonEmpty(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	return s, true
}

// Ref is a foreign-key reference as it arrives on the wire: a number, a
// string, or a nested object with an "id" field.
type Ref struct {
	key string
}

// NewRef builds a Ref from any supported shape. Unsupported shapes produce
// an empty Ref.
func NewRef(value any) Ref {
	k, _ := Key(value)
	return Ref{key: k}
}

// Key returns the canonical key and whether the reference is set.
func (r Ref) Key() (string, bool) {
	return nonEmpty(r.key)
}

// String returns the canonical key, or "" when unset.
func (r Ref) String() string {
	return r.key
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool {
	return r.key == ""
}

// Matches reports whether the reference points at candidate.
func (r Ref) Matches(candidate any) bool {
	return Matches(r, candidate)
}

// UnmarshalJSON accepts null, numbers, strings and objects with an "id" field.
// Any other shape decodes to an unset reference.
func (r *Ref) UnmarshalJSON(data []byte) error {
	r.key = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid reference %s: %w", string(data), err)
	}

	switch raw.(type) {
	case map[string]any, string, json.Number:
		r.key, _ = Key(raw)
	}
	return nil
}

// MarshalJSON writes the reference as a scalar id: a number when the key is
// numeric, a string otherwise.
func (r Ref) MarshalJSON() ([]byte, error) {
	return marshalKey(r.key)
}

// ID is an entity id normalized to its string form. It decodes from both
// JSON numbers and strings.
type ID string

// String returns the id.
func (id ID) String() string {
	return string(id)
}

// RefID implements Identifier.
func (id ID) RefID() string {
	return string(id)
}

// UnmarshalJSON accepts numbers, strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	var r Ref
	if err := r.UnmarshalJSON(data); err != nil {
		return err
	}
	*id = ID(r.key)
	return nil
}

// MarshalJSON writes numeric ids as numbers so they round-trip to the backend.
func (id ID) MarshalJSON() ([]byte, error) {
	return marshalKey(string(id))
}

func marshalKey(key string) ([]byte, error) {
	if key == "" {
		return []byte("null"), nil
	}
	if isDigits(key) {
		return []byte(key), nil
	}
	return json.Marshal(key)
}

func isDigits(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
