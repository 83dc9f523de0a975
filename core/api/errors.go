package api

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"quiz-manager/core/domain"

	"github.com/goccy/go-json"
)

// StatusError is returned for non-2xx responses that have no domain meaning.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error! status: %d %s", e.Method, e.Path, e.Code, e.Body)
}

// classify maps an error response to the domain taxonomy.
func classify(method, path string, code int, body []byte) error {
	switch code {
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrAuth)
	case http.StatusBadRequest:
		return &domain.ValidationError{
			Field:     strings.Trim(path, "/"),
			Reason:    "rejected by backend",
			Offending: fieldMessages(body),
		}
	default:
		return &StatusError{Method: method, Path: path, Code: code, Body: message(body)}
	}
}

// fieldMessages flattens a DRF-style error body ({"field": ["msg", ...]}).
func fieldMessages(body []byte) []string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return []string{msg}
		}
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		switch v := fields[k].(type) {
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			out = append(out, k+": "+strings.Join(parts, ", "))
		default:
			out = append(out, fmt.Sprintf("%s: %v", k, v))
		}
	}
	return out
}

func message(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Detail != "" {
			return payload.Detail
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
