package jsonutil

import (
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes YAML text into JSON-like values. The root must be a
// mapping.
func UnmarshalYAML(data []byte) (map[string]any, error) {
	var node any
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	m := StringMap(node)
	if m == nil {
		return nil, ErrNotObject
	}
	return m, nil
}

// StringMap converts YAML-decoded values (which may contain map[any]any)
// into JSON-like map[string]any recursively. Non-map roots return nil.
func StringMap(v any) map[string]any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			out[ks] = Normalize(vv)
		}
		return out
	default:
		return nil
	}
}

// Normalize rewrites nested YAML maps into map[string]any.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any, map[any]any:
		return StringMap(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = Normalize(t[i])
		}
		return arr
	default:
		return v
	}
}
