package ref_test

import (
	"encoding/json"
	"testing"

	"quiz-manager/core/ref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type owner struct{ id string }

func (o owner) RefID() string { return o.id }

func TestMatches(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		candidate any
		want      bool
	}{
		{"Scalar", 5, 5, true},
		{"Object", map[string]any{"id": 5}, 5, true},
		{"String", "5", 5, true},
		{"Different", 6, 5, false},
		{"FloatFromJSON", float64(5), "5", true},
		{"FloatWithFraction", 5.5, "5", false},
		{"JSONNumber", json.Number("5"), 5, true},
		{"Int64", int64(12), "12", true},
		{"Identifier", owner{id: "7"}, 7, true},
		{"ObjectWithoutID", map[string]any{"name": "x"}, 5, false},
		{"ObjectWithStringID", map[string]any{"id": "9"}, 9, true},
		{"Nil", nil, 5, false},
		{"NilCandidate", 5, nil, false},
		{"EmptyString", "", "", false},
		{"Slice", []int{5}, 5, false},
		{"PaddedString", " 5 ", 5, true},
		{"RefValue", ref.NewRef(map[string]any{"id": 3}), "3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ref.Matches(tt.value, tt.candidate))
		})
	}
}

func TestRef_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"Number", `5`, "5"},
		{"String", `"5"`, "5"},
		{"Object", `{"id": 5, "title": "Biology"}`, "5"},
		{"NestedStringID", `{"id": "abc"}`, "abc"},
		{"Null", `null`, ""},
		{"Array", `[1, 2]`, ""},
		{"Bool", `true`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r ref.Ref
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &r))
			assert.Equal(t, tt.want, r.String())
			assert.Equal(t, tt.want == "", r.IsZero())
		})
	}
}

func TestRef_InsideStruct(t *testing.T) {
	var payload struct {
		Quiz    ref.Ref `json:"quiz"`
		Variant ref.Ref `json:"variant"`
		ID      ref.ID  `json:"id"`
	}
	err := json.Unmarshal([]byte(`{"id": 42, "quiz": {"id": 1}, "variant": "3"}`), &payload)
	require.NoError(t, err)

	assert.Equal(t, ref.ID("42"), payload.ID)
	assert.True(t, payload.Quiz.Matches(1))
	assert.True(t, payload.Variant.Matches(3))
	assert.False(t, payload.Variant.Matches(4))
}

func TestID_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(map[string]any{
		"numeric": ref.ID("12"),
		"text":    ref.ID("a-1"),
		"padded":  ref.ID("007"),
		"empty":   ref.ID(""),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"numeric": 12, "text": "a-1", "padded": "007", "empty": null}`, string(out))
}

func TestToInt(t *testing.T) {
	assert.Equal(t, 5, ref.ToInt("5"))
	assert.Equal(t, 5, ref.ToInt(5.0))
	assert.Equal(t, 0, ref.ToInt("abc"))
	assert.Equal(t, 0, ref.ToInt(nil))
}
