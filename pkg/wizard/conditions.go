// Package wizard implements the dynamic intake wizard engine: conditional
// field visibility, the field type registry, step validation, session
// navigation, autosave, document requirement tracking, and the review
// formatter.
package wizard

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Condition grammar separators, checked in priority order. Anything else is
// not an expression language: unparseable conditions fall open to true so a
// bad definition can never hide a required field. No code evaluation happens
// here on purpose; do not widen this into a general expression evaluator.
const (
	includesSeparator = " includes "
	notEqualSeparator = " !== "
	equalSeparator    = " === "
)

// EvaluateCondition evaluates a field's conditional expression against the
// current form data. An empty condition means the field is always visible.
func EvaluateCondition(condition string, formData map[string]any) bool {
	if condition == "" {
		return true
	}

	if key, raw, ok := splitCondition(condition, includesSeparator); ok {
		literal := strings.Trim(raw, "'\"")

		values, isArray := asArray(formData[key])
		if !isArray {
			return false
		}

		for _, v := range values {
			if looseEqual(v, literal) {
				return true
			}
		}

		return false
	}

	if key, raw, ok := splitCondition(condition, notEqualSeparator); ok {
		return !looseEqual(formData[key], parseConditionValue(raw))
	}

	if key, raw, ok := splitCondition(condition, equalSeparator); ok {
		return looseEqual(formData[key], parseConditionValue(raw))
	}

	return true
}

func splitCondition(condition, separator string) (key, raw string, ok bool) {
	before, after, found := strings.Cut(condition, separator)
	if !found {
		return "", "", false
	}

	return strings.TrimSpace(before), strings.TrimSpace(after), true
}

// parseConditionValue parses the literal side of a comparison: the exact
// tokens true/false/null, quoted strings with quotes stripped, finite
// numbers, and otherwise the raw string itself.
func parseConditionValue(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}

	if len(raw) >= 2 {
		if (strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'")) ||
			(strings.HasPrefix(raw, `"`) && strings.HasSuffix(raw, `"`)) {
			return raw[1 : len(raw)-1]
		}
	}

	if num, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(num, 0) && !math.IsNaN(num) {
		return num
	}

	return raw
}

// looseEqual compares a form value to a parsed literal. Numbers compare by
// value regardless of concrete type, since JSON decoding yields float64 while
// in-process writers may store int. Everything else falls back to deep
// equality.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)

	if aok && bok {
		return af == bf
	}

	if aok != bok {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// asArray normalizes the two array shapes the form document can hold:
// []any from JSON decoding and []string from in-process writers.
func asArray(v any) ([]any, bool) {
	switch arr := v.(type) {
	case []any:
		return arr, true
	case []string:
		values := make([]any, len(arr))
		for i, s := range arr {
			values[i] = s
		}

		return values, true
	default:
		return nil, false
	}
}
