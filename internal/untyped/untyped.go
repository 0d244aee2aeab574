// Package untyped provides safe narrowing accessors over decoded JSON
// values (any / map[string]any). Every accessor returns a zero value on
// absence or type mismatch instead of panicking, so callers can walk
// arbitrarily malformed document graphs without guarding each access.
package untyped

// AsMap narrows v to a map[string]any.
func AsMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// AsSlice narrows v to a []any.
func AsSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

// AsString narrows v to a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsNumber narrows v to a float64. encoding/json decodes all JSON
// numbers to float64 when the target is any, so int values also land here.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Map returns m[key] as a map, or nil when absent or mismatched.
func Map(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := AsMap(m[key])
	return out
}

// Slice returns m[key] as a slice, or nil when absent or mismatched.
func Slice(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	out, _ := AsSlice(m[key])
	return out
}

// Str returns m[key] as a string, or "" when absent or mismatched.
func Str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	out, _ := AsString(m[key])
	return out
}

// Keys returns the keys of m in unspecified order. Used to attach
// structural context to errors without dumping values.
func Keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
