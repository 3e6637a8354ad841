package types

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Value is an arbitrary JSON value that remembers whether its key was
// present in the decoded object. A present null is still present.
type Value struct {
	set bool
	v   any
}

// NewValue wraps v as a present value.
func NewValue(v any) Value { return Value{set: true, v: v} }

// UnmarshalJSON marks the value present and stores the decoded payload.
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v.set = true
	v.v = raw
	return nil
}

// MarshalJSON encodes the wrapped payload.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.v) }

// Present reports whether the key was supplied.
func (v Value) Present() bool { return v.set }

// Raw returns the decoded payload (nil, bool, float64, string, []any or map[string]any).
func (v Value) Raw() any { return v.v }

// Kind names the JSON type of the payload.
func (v Value) Kind() string {
	switch v.v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v.v)
	}
}

// Truthy reports whether the payload is non-empty: null, false, 0, "",
// [] and {} are all falsy.
func (v Value) Truthy() bool {
	if !v.set {
		return false
	}
	switch x := v.v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case string:
		return x != ""
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// Len returns the element count of an array, the key count of an object or
// the rune count of a string. Other kinds have no length.
func (v Value) Len() (int, error) {
	switch x := v.v.(type) {
	case []any:
		return len(x), nil
	case map[string]any:
		return len(x), nil
	case string:
		return utf8.RuneCountInString(x), nil
	default:
		return 0, fmt.Errorf("object of kind %s has no length", v.Kind())
	}
}

// Result is the generic mapping returned by model, query and insight
// collaborators. Keys beyond the documented ones pass through untouched.
type Result map[string]any

// String returns r[key] when it is a non-empty string, otherwise def.
func (r Result) String(key, def string) string {
	if s, ok := r[key].(string); ok && s != "" {
		return s
	}
	return def
}

// Float returns r[key] as a float64 when it is numeric, otherwise def.
func (r Result) Float(key string, def float64) float64 {
	if f, ok := ToFloat(r[key]); ok {
		return f
	}
	return def
}

// ToFloat converts the numeric kinds produced by JSON decoding and by Go
// callers into a float64.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
