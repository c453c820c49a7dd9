package extract

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// maxOffset bounds accepted offsets so float conversion stays well defined
const maxOffset = math.MaxInt32

// asRecord returns v as an object, or nil when it is not one
func asRecord(v any) map[string]any {
	switch rec := v.(type) {
	case map[string]any:
		return rec
	case map[any]any:
		// Older YAML decoders produce untyped keys
		out := make(map[string]any, len(rec))
		for k, val := range rec {
			key, ok := k.(string)
			if !ok {
				key = fmt.Sprint(k)
			}
			out[key] = val
		}
		return out
	default:
		return nil
	}
}

// list returns v as an array, or nil when it is not one
func list(v any) []any {
	if arr, ok := v.([]any); ok {
		return arr
	}
	return nil
}

// records returns the object entries of an array, skipping everything else
func records(v any) []map[string]any {
	arr := list(v)
	if len(arr) == 0 {
		return nil
	}

	out := make([]map[string]any, 0, len(arr))
	for _, entry := range arr {
		if rec := asRecord(entry); rec != nil {
			out = append(out, rec)
		}
	}
	return out
}

// toString returns the trimmed string value of v, or "" for non-strings
func toString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstString returns the first non-empty string among the given keys
func firstString(rec map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := toString(rec[key]); s != "" {
			return s
		}
	}
	return ""
}

// toNumber accepts finite numeric values only
func toNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) *float64 {
	f, ok := toNumber(v)
	if !ok {
		return nil
	}
	return &f
}

// toOffset converts a numeric offset to an int, flooring fractional values
func toOffset(v any) *int {
	f, ok := toNumber(v)
	if !ok {
		return nil
	}
	f = math.Max(-maxOffset, math.Min(maxOffset, math.Floor(f)))
	i := int(f)
	return &i
}

// FoldKey returns the comparison key of a term: NFC normalized and case folded
func FoldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
