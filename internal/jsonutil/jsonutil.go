// Package jsonutil holds the go-json and YAML plumbing shared by the dialect
// translators and the text codecs.
package jsonutil

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Unmarshal decodes JSON text into generic values (map[string]any, []any,
// float64, string, bool, nil).
func Unmarshal(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalObject decodes JSON text whose root must be an object.
func UnmarshalObject(data []byte) (map[string]any, error) {
	v, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("jsonutil: root is %T, want object", v)
	}
	return m, nil
}

// ToMap converts a struct (or any JSON-marshalable value) into a generic
// object by round-tripping it through go-json.
func ToMap(v any) (map[string]any, error) {
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return UnmarshalObject(b)
}

// Convert decodes src into dst through its JSON representation.
func Convert(src, dst any) error {
	b, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// Marshal encodes v with go-json, indented when indent is non-empty.
func Marshal(v any, indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(v)
	}
	return json.MarshalIndent(v, "", indent)
}

// Valid reports whether data is syntactically valid JSON.
func Valid(data []byte) bool { return json.Valid(data) }

// KeyOrder parses raw JSON and records the order of the keys of every
// "properties" object. Keys of the result are JSON Pointers such as
// "/properties" or "/properties/rooms/items/properties". A parse error yields
// whatever was collected before it.
func KeyOrder(raw []byte) map[string][]string {
	out := make(map[string][]string)
	dec := json.NewDecoder(bytes.NewReader(raw))

	var walk func(path string) error
	walk = func(path string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		d, ok := tok.(json.Delim)
		if !ok {
			return nil
		}
		switch d {
		case '{':
			var keys []string
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := kt.(string)
				keys = append(keys, key)
				if err := walk(path + "/" + escape(key)); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			if strings.HasSuffix(path, "/properties") {
				out[path] = keys
			}
		case '[':
			for dec.More() {
				if err := walk(path); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
		}
		return nil
	}
	_ = walk("")
	return out
}

// Join appends escaped segments to a JSON Pointer.
func Join(path string, segs ...string) string {
	for _, s := range segs {
		path += "/" + escape(s)
	}
	return path
}

// OrderKeys returns the keys of props in a stable order. When explicit lists
// at least one key it wins, with leftovers sorted after it; otherwise keys in
// required come first in list order, then the rest sorted.
func OrderKeys[V any](props map[string]V, explicit, required []string) []string {
	out := make([]string, 0, len(props))
	seen := make(map[string]bool, len(props))
	take := func(list []string) {
		for _, k := range list {
			if _, ok := props[k]; ok && !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	take(explicit)
	if len(out) == 0 {
		take(required)
	}
	rest := make([]string, 0, len(props)-len(out))
	for k := range props {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// StringSlice reads a []any or []string of strings; other element types are
// skipped.
func StringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ErrNotObject is returned when YAML or JSON input does not decode to a
// mapping.
var ErrNotObject = errors.New("jsonutil: input is not an object")
