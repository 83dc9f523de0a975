package reconcile

import (
	"fmt"
	"testing"

	"quiz-manager/core/domain"
	"quiz-manager/core/ref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(names ...string) []domain.Item {
	out := make([]domain.Item, len(names))
	for i, name := range names {
		out[i] = domain.Item{ID: ref.ID(fmt.Sprintf("%d", i+1)), Name: name, Variant: ref.NewRef(10)}
	}
	return out
}

func ids(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID.String()
	}
	return out
}

// TestReconcile_Idempotent tests that reconciling a baseline against its own names is a no-op.
func TestReconcile_Idempotent(t *testing.T) {
	baselines := [][]domain.Item{
		items(),
		items("A"),
		items("A", "B", "C"),
		items("A", "A", "B"),
		items("Glucose", "Xylose", "Glucose", "Sucrose"),
	}

	for _, baseline := range baselines {
		plan := Reconcile(baseline, domain.Names(baseline))
		assert.True(t, plan.IsEmpty(), "baseline %v", domain.Names(baseline))
		assert.Len(t, plan.Kept, len(baseline))
	}
}

// TestReconcile_Properties tests the diff cases the editor relies on.
func TestReconcile_Properties(t *testing.T) {
	tests := []struct {
		name          string
		original      []domain.Item
		desired       []string
		wantCreate    []string
		wantDeleteIDs []string
	}{
		{
			name:          "Superset",
			original:      items("A", "B"),
			desired:       []string{"A", "B", "C"},
			wantCreate:    []string{"C"},
			wantDeleteIDs: []string{},
		},
		{
			name:          "Subset",
			original:      items("A", "B", "C"),
			desired:       []string{"A", "B"},
			wantCreate:    []string{},
			wantDeleteIDs: []string{"3"},
		},
		{
			name:          "DuplicateAwareDelete",
			original:      items("A", "A"),
			desired:       []string{"A"},
			wantCreate:    []string{},
			wantDeleteIDs: []string{"2"},
		},
		{
			name:          "DuplicateAwareCreate",
			original:      items("A"),
			desired:       []string{"A", "A", "A"},
			wantCreate:    []string{"A", "A"},
			wantDeleteIDs: []string{},
		},
		{
			name:          "ClearAll",
			original:      items("A", "B"),
			desired:       []string{},
			wantCreate:    []string{},
			wantDeleteIDs: []string{"1", "2"},
		},
		{
			name:          "Rename",
			original:      items("Glucose", "Sucrose"),
			desired:       []string{"Glucose", "Lactose"},
			wantCreate:    []string{"Lactose"},
			wantDeleteIDs: []string{"2"},
		},
		{
			name:          "Reorder",
			original:      items("A", "B", "C"),
			desired:       []string{"C", "A", "B"},
			wantCreate:    []string{},
			wantDeleteIDs: []string{},
		},
		{
			name:          "WhitespaceInsensitive",
			original:      items(" A ", "B"),
			desired:       []string{"A", "B"},
			wantCreate:    []string{},
			wantDeleteIDs: []string{},
		},
		{
			name:          "CaseSensitive",
			original:      items("a"),
			desired:       []string{"A"},
			wantCreate:    []string{"A"},
			wantDeleteIDs: []string{"1"},
		},
		{
			name:          "EmptyBaseline",
			original:      items(),
			desired:       []string{"X", "Y"},
			wantCreate:    []string{"X", "Y"},
			wantDeleteIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Reconcile(tt.original, tt.desired)
			assert.Equal(t, tt.wantCreate, plan.ToCreate)
			assert.Equal(t, tt.wantDeleteIDs, ids(plan.ToDelete))
			assert.Equal(t, len(tt.original)-len(tt.wantDeleteIDs), plan.Summary.Kept)
			assert.Equal(t, len(tt.wantCreate), plan.Summary.Creates)
			assert.Equal(t, len(tt.wantDeleteIDs), plan.Summary.Deletes)
		})
	}
}

// TestReconcile_ClearAllFlags tests the helper flags of a clear-variant plan.
func TestReconcile_ClearAllFlags(t *testing.T) {
	plan := Reconcile(items("A", "B"), nil)
	assert.True(t, plan.ClearsAll())
	assert.True(t, plan.Destructive())
	assert.Empty(t, plan.ToCreate)

	empty := Reconcile(items(), nil)
	assert.False(t, empty.ClearsAll())
	assert.True(t, empty.IsEmpty())
}

// TestPlan_Actions tests that actions list deletions before creations.
func TestPlan_Actions(t *testing.T) {
	plan := Reconcile(items("A", "B"), []string{"A", "C"})
	actions := plan.Actions()

	assert.Len(t, actions, 2)
	assert.Equal(t, ActionDeleteItem, actions[0].Type)
	assert.Equal(t, "B", actions[0].Name)
	assert.Equal(t, ActionCreateItem, actions[1].Type)
	assert.Equal(t, "C", actions[1].Name)
}

func TestParseDesired(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		delim Delimiter
		want  []string
	}{
		{"Comma", "Glucose, Xylose ,Sucrose", DelimiterComma, []string{"Glucose", "Xylose", "Sucrose"}},
		{"DropsEmpties", " , A,, ,B, ", DelimiterComma, []string{"A", "B"}},
		{"Newline", "A\nB\r\n\nC", DelimiterNewline, []string{"A", "B", "C"}},
		{"NewlineKeepsCommas", "Salt, table\nSugar", DelimiterNewline, []string{"Salt, table", "Sugar"}},
		{"AutoComma", "A, B", DelimiterAuto, []string{"A", "B"}},
		{"AutoNewline", "A, B\nC", DelimiterAuto, []string{"A, B", "C"}},
		{"Duplicates", "A, A", DelimiterComma, []string{"A", "A"}},
		{"Blank", "   ", DelimiterComma, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDesired(tt.text, tt.delim))
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	d, err := ParseDelimiter("")
	assert.NoError(t, err)
	assert.Equal(t, DelimiterAuto, d)

	d, err = ParseDelimiter(",")
	assert.NoError(t, err)
	assert.Equal(t, DelimiterComma, d)

	d, err = ParseDelimiter("NEWLINE")
	assert.NoError(t, err)
	assert.Equal(t, DelimiterNewline, d)

	_, err = ParseDelimiter("semicolon")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateNames(t *testing.T) {
	assert.NoError(t, ValidateNames([]string{"A", "B"}))
	assert.NoError(t, ValidateNames(nil))

	err := ValidateNames([]string{"A", "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	long := make([]rune, MaxNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	err = ValidateNames([]string{string(long)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "longer than 255")

	err = ValidateNames(ParseDesired("Salt, table\nSugar", DelimiterNewline))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Salt, table"}, verr.Offending)
}

func TestFormatNames(t *testing.T) {
	assert.Equal(t, "A, B", FormatNames([]string{"A", "B"}, DelimiterComma))
	assert.Equal(t, "A\nB", FormatNames([]string{"A", "B"}, DelimiterNewline))
	assert.Equal(t, "A, B", FormatNames([]string{"A", "B"}, DelimiterAuto))

	names := []string{"Glucose", "Xylose", "Sucrose"}
	for _, d := range []Delimiter{DelimiterComma, DelimiterNewline, DelimiterAuto} {
		assert.Equal(t, names, ParseDesired(FormatNames(names, d), d))
	}
}
