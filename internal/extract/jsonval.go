package extract

import "strconv"

// Accessors over the loosely typed JSON tree the platform embeds. The
// upstream shape is contractually unstable, so every read tolerates absent
// keys and wrong types instead of asserting a schema.

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// strField returns the named field when it holds a non-empty string.
func strField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// firstString returns the first key holding a non-empty string value.
func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := strField(m, key); s != "" {
			return s
		}
	}
	return ""
}

// strPtrFirst is firstString with a nullable result for optional fields.
func strPtrFirst(m map[string]any, keys ...string) *string {
	if s := firstString(m, keys...); s != "" {
		return &s
	}
	return nil
}

// asInt64 interprets a JSON value as an integer. encoding/json decodes all
// numbers as float64; the platform also ships some counters as digit strings.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		if parsed, err := strconv.ParseInt(n, 10, 64); err == nil {
			return parsed, true
		}
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(parsed), true
		}
	}
	return 0, false
}

// intField returns the named field as a nullable integer.
func intField(m map[string]any, key string) *int64 {
	if m == nil {
		return nil
	}
	v, ok := m[key]
	if !ok {
		return nil
	}
	n, ok := asInt64(v)
	if !ok {
		return nil
	}
	return &n
}

// firstInt returns the first key present with a numeric value. A zero counter
// is still a present value and wins over later keys.
func firstInt(m map[string]any, keys ...string) *int64 {
	for _, key := range keys {
		if m == nil {
			return nil
		}
		if _, ok := m[key]; !ok {
			continue
		}
		return intField(m, key)
	}
	return nil
}
