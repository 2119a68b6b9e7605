// fields.go implements tolerant field lookup over decoded event objects.
// Each semantic field is resolved through an ordered list of candidate keys
// so that backend-specific spellings never leak into the state model.
package event

import (
	"encoding/json"
	"fmt"
)

// decodeObject strictly decodes a line as a JSON object. Arrays, scalars,
// and malformed input all report false.
func decodeObject(line string) (map[string]any, bool) {
	var ev map[string]any
	if err := json.Unmarshal([]byte(line), &ev); err != nil || ev == nil {
		return nil, false
	}
	return ev, true
}

// strField returns the first candidate key holding a non-empty string.
func strField(ev map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := ev[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// objField returns the first candidate key holding a JSON object.
func objField(ev map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if m, ok := ev[k].(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// anyField returns the first candidate key that is present and non-nil.
func anyField(ev map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := ev[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// intField returns the first candidate key holding a number, truncated to
// int. JSON numbers decode as float64.
func intField(ev map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := ev[k].(type) {
		case float64:
			return int(v), true
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n), true
			}
		}
	}
	return 0, false
}

// floatField returns the first candidate key holding a number.
func floatField(ev map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := ev[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

// boolField returns the first candidate key holding a boolean.
func boolField(ev map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		if v, ok := ev[k].(bool); ok {
			return v, true
		}
	}
	return false, false
}

// stringify renders an arbitrary decoded value for a log preview. Objects
// and arrays render as compact JSON, everything else through fmt.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// textContent flattens a content value that may be a plain string or an
// ordered list of typed fragments. Text fragments are concatenated in order;
// non-text fragments are ignored.
func textContent(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []any:
		var out string
		for _, item := range v {
			frag, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if t, _ := frag["type"].(string); t != "" && t != "text" {
				continue
			}
			if s, ok := frag["text"].(string); ok {
				out += s
			}
		}
		return out
	}
	return ""
}
