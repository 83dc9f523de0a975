package ref

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToString converts a scalar reference value to its canonical string form.
// Numbers are rendered the way a JavaScript String() call would render them,
// so 5, 5.0, int64(5) and "5" all produce "5". ok is false for values that
// are not scalars (maps, slices, nil).
func ToString(val any) (string, bool) {
	switch v := val.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(v), true
	case []byte:
		return strings.TrimSpace(string(v)), true
	case json.Number:
		return formatNumber(string(v)), true
	case ID:
		return string(v), true
	case int:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int16:
		return strconv.FormatInt(int64(v), 10), true
	case int8:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint16:
		return strconv.FormatUint(uint64(v), 10), true
	case uint8:
		return strconv.FormatUint(uint64(v), 10), true
	case float64:
		return formatFloat(v), true
	case float32:
		return formatFloat(float64(v)), true
	case bool:
		return strconv.FormatBool(v), true
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), true
	default:
		return "", false
	}
}

// ToInt converts a scalar reference value to an int.
// Non-numeric values yield 0.
func ToInt(val any) int {
	s, ok := ToString(val)
	if !ok {
		return 0
	}
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatNumber(raw string) string {
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return formatFloat(f)
	}
	return strings.TrimSpace(raw)
}
