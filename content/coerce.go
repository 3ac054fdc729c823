package content

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// dateLayouts are tried in order when coercing text to a date.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.DateOnly,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006-01-02T15:04",
	time.RFC1123Z,
	time.RFC1123,
}

// typeName names the kind of a decoded frontmatter value for error reasons.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case time.Time, *time.Time:
		return "date"
	case []any, []string:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func expected(want string, got any) string {
	return "expected " + want + ", received " + typeName(got)
}

// maxEpochMillis is the largest magnitude a JavaScript Date accepts.
const maxEpochMillis = 8.64e15

// coerceDate accepts a native time, date text, or epoch milliseconds.
// Dates outside years 0..9999 are rejected.
func coerceDate(v any) (time.Time, bool) {
	t, ok := parseDate(v)
	if !ok || t.Year() < 0 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}

func parseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return *val, true
	case string:
		s := strings.TrimSpace(val)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	n, ok := asNumber(v)
	if !ok || math.IsNaN(n) || math.Abs(n) > maxEpochMillis {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(n)).UTC(), true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// asInt accepts whole numbers that fit in an int32.
func asInt(v any) (int, bool) {
	n, ok := asNumber(v)
	if !ok || n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
		return 0, false
	}
	return int(n), true
}

// asObject accepts the map shapes YAML and JSON decoders produce. Maps with
// non-string keys are not objects.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

// field helpers read raw[key] at path and record an error on type mismatch.

func requiredString(c *collector, raw map[string]any, key, path string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		c.add(path, "required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.add(path, expected("string", v))
		return ""
	}
	if s == "" {
		c.add(path, "must not be empty")
	}
	return s
}

func optionalString(c *collector, raw map[string]any, key, path string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		c.add(path, expected("string", v))
	}
	return s
}

func optionalBool(c *collector, raw map[string]any, key, path string) (bool, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return false, false
	}
	b, ok := v.(bool)
	if !ok {
		c.add(path, expected("boolean", v))
		return false, false
	}
	return b, true
}

func optionalNumber(c *collector, raw map[string]any, key, path string) float64 {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0
	}
	n, ok := asNumber(v)
	if !ok {
		c.add(path, expected("number", v))
	}
	return n
}

func optionalStrings(c *collector, raw map[string]any, key, path string) []string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	list, ok := asList(v)
	if !ok {
		c.add(path, expected("array", v))
		return nil
	}
	out := make([]string, 0, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			c.add(index(path, i), expected("string", item))
			continue
		}
		out = append(out, s)
	}
	return out
}

func requiredDate(c *collector, raw map[string]any, key, path string) time.Time {
	v, ok := raw[key]
	if !ok || v == nil {
		c.add(path, "required")
		return time.Time{}
	}
	t, ok := coerceDate(v)
	if !ok {
		c.addf(path, "invalid date (received %s)", typeName(v))
	}
	return t
}

func optionalDate(c *collector, raw map[string]any, key, path string) *time.Time {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	t, ok := coerceDate(v)
	if !ok {
		c.addf(path, "invalid date (received %s)", typeName(v))
		return nil
	}
	return &t
}
