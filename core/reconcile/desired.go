package reconcile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"quiz-manager/core/domain"
)

// MaxNameLength is the longest item name the backend accepts.
const MaxNameLength = 255

// Delimiter selects how an edited text blob is split into item names.
type Delimiter string

const (
	// DelimiterComma splits on commas.
	DelimiterComma Delimiter = "comma"
	// DelimiterNewline splits on line breaks.
	DelimiterNewline Delimiter = "newline"
	// DelimiterAuto uses newlines when the text contains one, commas otherwise.
	DelimiterAuto Delimiter = "auto"
)

// ParseDelimiter converts a configuration or request value to a Delimiter.
func ParseDelimiter(s string) (Delimiter, error) {
	switch Delimiter(strings.ToLower(strings.TrimSpace(s))) {
	case DelimiterComma, ",":
		return DelimiterComma, nil
	case DelimiterNewline, "\\n", "line":
		return DelimiterNewline, nil
	case DelimiterAuto, "":
		return DelimiterAuto, nil
	default:
		return "", &domain.ValidationError{Field: "delimiter", Reason: "unsupported delimiter", Offending: []string{s}}
	}
}

// ParseDesired splits text on the delimiter, trims every entry and drops the
// empty ones. Order and duplicates are preserved.
func ParseDesired(text string, delim Delimiter) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	sep := ","
	switch delim {
	case DelimiterNewline:
		sep = "\n"
	case DelimiterAuto:
		if strings.Contains(text, "\n") {
			sep = "\n"
		}
	}

	names := []string{}
	for _, part := range strings.Split(text, sep) {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ValidateNames rejects names that are empty after trimming, longer than
// MaxNameLength or containing a comma. The backend splits a posted name on
// commas into several items, so such a name never round-trips.
func ValidateNames(names []string) error {
	var empty int
	var tooLong, withComma []string
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			empty++
			continue
		}
		if utf8.RuneCountInString(trimmed) > MaxNameLength {
			tooLong = append(tooLong, truncate(trimmed, 32))
		}
		if strings.Contains(trimmed, ",") {
			withComma = append(withComma, truncate(trimmed, 32))
		}
	}
	if empty > 0 {
		return &domain.ValidationError{
			Field:  "items",
			Reason: fmt.Sprintf("%d item name(s) empty after trimming", empty),
		}
	}
	if len(tooLong) > 0 {
		return &domain.ValidationError{
			Field:     "items",
			Reason:    fmt.Sprintf("item names longer than %d characters", MaxNameLength),
			Offending: tooLong,
		}
	}
	if len(withComma) > 0 {
		return &domain.ValidationError{
			Field:     "items",
			Reason:    "item names must not contain commas",
			Offending: withComma,
		}
	}
	return nil
}

// FormatNames joins item names back into an editable text blob.
func FormatNames(names []string, delim Delimiter) string {
	if delim == DelimiterNewline {
		return strings.Join(names, "\n")
	}
	return strings.Join(names, ", ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
