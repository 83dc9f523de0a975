package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"quiz-manager/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeItem(t *testing.T, payload string) domain.Item {
	t.Helper()
	var item domain.Item
	require.NoError(t, json.Unmarshal([]byte(payload), &item))
	return item
}

func TestItem_BelongsTo(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    bool
	}{
		{"ScalarQuiz", `{"id": 1, "name": "Xylose", "variant": 10, "quiz": 1}`, true},
		{"NestedQuiz", `{"id": 1, "name": "Xylose", "variant": {"id": 10}, "quiz": {"id": 1}}`, true},
		{"StringQuiz", `{"id": 1, "name": "Xylose", "variant": "10", "quiz": "1"}`, true},
		{"QuizIDSpelling", `{"id": 1, "name": "Xylose", "variant": 10, "quiz_id": 1}`, true},
		{"OtherQuiz", `{"id": 1, "name": "Xylose", "variant": 10, "quiz": 2}`, false},
		{"OtherVariant", `{"id": 1, "name": "Xylose", "variant": 11, "quiz": 1}`, false},
		{"NoQuizRef", `{"id": 1, "name": "Xylose", "variant": 10}`, true},
		{"NoRefsAtAll", `{"id": 1, "name": "Xylose"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := decodeItem(t, tt.payload)
			assert.Equal(t, tt.want, item.BelongsTo("1", "10"))
		})
	}
}

func TestVariant_BelongsTo(t *testing.T) {
	var variants []domain.Variant
	payload := `[
		{"id": 1, "name": "Monosaccharide", "quiz": 7},
		{"id": 2, "name": "Disaccharide", "quiz": {"id": 7, "title": "Sugars"}},
		{"id": 3, "name": "Other", "quiz": 8},
		{"id": 4, "name": "Legacy", "quiz_id": "7"}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &variants))

	var kept []string
	for _, v := range variants {
		if v.BelongsTo("7") {
			kept = append(kept, v.Name)
		}
	}
	assert.Equal(t, []string{"Monosaccharide", "Disaccharide", "Legacy"}, kept)
}

func TestValidationError(t *testing.T) {
	err := &domain.ValidationError{Field: "items", Reason: "name too long", Offending: []string{"abc"}}
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "items: name too long (abc)", err.Error())
}
