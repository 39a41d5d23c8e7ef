// Package jsonschema translates canonical schemas to and from the JSON Schema
// dialects accepted by Anthropic, Ollama, Mistral, LangChain and HuggingFace.
//
// All flavors share one encoder. They differ only in their root markers:
//
//	Anthropic    "$schema": draft-07
//	LangChain    "$schema": 2020-12
//	Ollama       plain {"type": "object", "properties": ...}
//	Mistral      "additionalProperties": false on every object
//	HuggingFace  root "format": "huggingface"
//
// The representation is *jsonschema.Schema from github.com/google/jsonschema-go.
package jsonschema

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	js "github.com/google/jsonschema-go/jsonschema"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/jsonutil"
)

// Schema dialect URIs.
const (
	Draft07     = "http://json-schema.org/draft-07/schema#"
	Draft202012 = "https://json-schema.org/draft/2020-12/schema"
)

// HuggingFaceFormat marks the root of a HuggingFace schema.
const HuggingFaceFormat = "huggingface"

// Flavor selects the provider a JSON Schema is produced for.
type Flavor int

const (
	Anthropic Flavor = iota
	Ollama
	Mistral
	LangChain
	HuggingFace
)

var flavorNames = [...]string{
	Anthropic:   "anthropic",
	Ollama:      "ollama",
	Mistral:     "mistral",
	LangChain:   "langchain",
	HuggingFace: "huggingface",
}

func (f Flavor) String() string {
	if f >= Anthropic && f <= HuggingFace {
		return flavorNames[f]
	}
	return fmt.Sprintf("Flavor(%d)", int(f))
}

// FlavorForURI returns the flavor owning a $schema URI. Any other
// json-schema.org URI belongs to Anthropic.
func FlavorForURI(uri string) (Flavor, bool) {
	switch {
	case uri == Draft202012 || strings.Contains(uri, "/draft/2020-12/"):
		return LangChain, true
	case strings.Contains(uri, "json-schema.org"):
		return Anthropic, true
	}
	return Anthropic, false
}

func (f Flavor) encodeOptions() EncodeOptions {
	return EncodeOptions{Closed: f == Mistral}
}

// Encode converts s into the JSON Schema expected by flavor f. It never fails:
// a nil schema, an unmarshalable default or a panic yields the fallback schema
// with Outcome Fallback.
func Encode(s *belso.Schema, f Flavor) (res belso.Result[*js.Schema]) {
	d := belso.NewDiag(f.String())
	defer func() {
		if r := recover(); r != nil {
			res = f.fallback(d, fmt.Errorf("panic recovered: %v", r))
		}
	}()
	out, err := EncodeSchema(s, d, f.encodeOptions())
	if err != nil {
		return f.fallback(d, err)
	}
	f.mark(out)
	belso.Logger().Debug("encoded schema", "dialect", f.String(), "schema", s.Name(), "fields", s.Len())
	return belso.Done(out, d)
}

func (f Flavor) mark(root *js.Schema) {
	switch f {
	case Anthropic:
		root.Schema = Draft07
	case LangChain:
		root.Schema = Draft202012
	case HuggingFace:
		root.Format = HuggingFaceFormat
	}
}

func (f Flavor) fallback(d *belso.Diag, cause error) belso.Result[*js.Schema] {
	out, err := EncodeSchema(belso.FallbackSchema(), nil, f.encodeOptions())
	if err != nil {
		panic(err)
	}
	f.mark(out)
	return belso.Failed(out, d, fmt.Errorf("%s encode: %w", f, cause))
}

// Decode converts a JSON Schema into a canonical schema. in may be a
// *jsonschema.Schema, a map[string]any, or raw JSON ([]byte, string,
// json.RawMessage); raw JSON keeps its property order. Failures yield
// belso.FallbackSchema with Outcome Fallback.
func Decode(in any, f Flavor) (res belso.Result[*belso.Schema]) {
	d := belso.NewDiag(f.String())
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("%s decode: panic recovered: %v", f, r))
		}
	}()
	root, order, err := Parse(in)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("%s decode: %w", f, err))
	}
	WarnDuplicates(in, d)
	s, err := DecodeSchema(root, d, DecodeOptions{Order: order})
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("%s decode: %w", f, err))
	}
	belso.Logger().Debug("decoded schema", "dialect", f.String(), "schema", s.Name(), "fields", s.Len())
	return belso.Done(s, d)
}

// Parse reads the accepted input forms into a schema tree plus the raw
// property order when it is known.
func Parse(in any) (*js.Schema, map[string][]string, error) {
	switch t := in.(type) {
	case *js.Schema:
		if t == nil {
			return nil, nil, errNilSchema
		}
		return t, nil, nil
	case js.Schema:
		return &t, nil, nil
	case []byte:
		return parseRaw(t)
	case json.RawMessage:
		return parseRaw(t)
	case string:
		return parseRaw([]byte(t))
	case map[string]any:
		var sch js.Schema
		if err := jsonutil.Convert(t, &sch); err != nil {
			return nil, nil, err
		}
		return &sch, nil, nil
	case nil:
		return nil, nil, errNilSchema
	}
	return nil, nil, fmt.Errorf("unsupported input %T", in)
}

// WarnDuplicates records a warning for every duplicated key of raw JSON input.
// Other input forms are ignored.
func WarnDuplicates(in any, d *belso.Diag) {
	var raw []byte
	switch t := in.(type) {
	case []byte:
		raw = t
	case json.RawMessage:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return
	}
	for _, p := range jsonutil.DuplicateKeys(raw) {
		d.Warnf("duplicate key %s, keeping the last value", p)
	}
}

func parseRaw(raw []byte) (*js.Schema, map[string][]string, error) {
	var sch js.Schema
	if err := json.Unmarshal(raw, &sch); err != nil {
		return nil, nil, err
	}
	return &sch, jsonutil.KeyOrder(raw), nil
}
