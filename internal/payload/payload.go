// Package payload provides explicit lookups over loosely-structured JSON objects.
// Every lookup reports whether a usable value was found instead of defaulting,
// so callers branch on presence rather than on zero values.
package payload

// String returns the string value at key and whether one was present.
// Non-string values are treated as absent.
func String(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// FirstNonEmpty tries keys in the given order and returns the first
// non-empty string value found.
func FirstNonEmpty(obj map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := String(obj, key); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// Object returns the nested JSON object at key and whether one was present.
func Object(obj map[string]any, key string) (map[string]any, bool) {
	v, ok := obj[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}
