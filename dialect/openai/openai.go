// Package openai translates canonical schemas to and from OpenAI structured
// output response formats in strict mode.
//
// Strict mode lists every property as required and marks optional ones with a
// nullable type ([T, "null"]). Defaults, length ranges and property-count
// ranges are not accepted there and are dropped with a warning.
package openai

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	json "github.com/goccy/go-json"
	js "github.com/google/jsonschema-go/jsonschema"

	"github.com/reoring/belso"
	"github.com/reoring/belso/dialect/jsonschema"
	"github.com/reoring/belso/internal/jsonutil"
)

// TypeJSONSchema is the response_format type of structured outputs.
const TypeJSONSchema = "json_schema"

// ResponseFormat is the response_format body of a chat completion request.
type ResponseFormat struct {
	Type       string      `json:"type"`
	JSONSchema *JSONSchema `json:"json_schema"`
}

// JSONSchema names and carries the schema of a structured output.
type JSONSchema struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Strict      bool       `json:"strict"`
	Schema      *js.Schema `json:"schema"`
}

// Model is a Go struct type used as a structured-output model. Its JSON
// Schema is inferred from the type when the model is decoded.
type Model struct {
	name  string
	infer func() (*js.Schema, error)
}

// ModelFor returns the Model of T. Field names follow the json tags of T.
func ModelFor[T any]() Model {
	name := reflect.TypeFor[T]().Name()
	if name == "" {
		name = jsonschema.DefaultName
	}
	return Model{
		name:  name,
		infer: func() (*js.Schema, error) { return js.For[T](nil) },
	}
}

// Name returns the Go type name.
func (m Model) Name() string { return m.name }

// Schema infers the JSON Schema of the model type.
func (m Model) Schema() (*js.Schema, error) {
	if m.infer == nil {
		return nil, errors.New("openai: zero Model")
	}
	return m.infer()
}

var encodeOptions = jsonschema.EncodeOptions{
	Strict:      true,
	Closed:      true,
	Unsupported: []belso.Facet{belso.FacetLengthRange, belso.FacetPropertiesRange},
}

const dialect = "openai"

// Encode converts s into a strict response format. It never fails: errors
// and panics yield the fallback schema with Outcome Fallback.
func Encode(s *belso.Schema) (res belso.Result[*ResponseFormat]) {
	d := belso.NewDiag(dialect)
	defer func() {
		if r := recover(); r != nil {
			res = fallback(d, fmt.Errorf("panic recovered: %v", r))
		}
	}()
	body, err := jsonschema.EncodeSchema(s, d, encodeOptions)
	if err != nil {
		return fallback(d, err)
	}
	belso.Logger().Debug("encoded schema", "dialect", dialect, "schema", s.Name(), "fields", s.Len())
	return belso.Done(wrap(s.Name(), body), d)
}

func wrap(name string, body *js.Schema) *ResponseFormat {
	return &ResponseFormat{
		Type: TypeJSONSchema,
		JSONSchema: &JSONSchema{
			Name:   name,
			Strict: true,
			Schema: body,
		},
	}
}

func fallback(d *belso.Diag, cause error) belso.Result[*ResponseFormat] {
	fb := belso.FallbackSchema()
	body, err := jsonschema.EncodeSchema(fb, nil, encodeOptions)
	if err != nil {
		panic(err)
	}
	return belso.Failed(wrap(fb.Name(), body), d, fmt.Errorf("openai encode: %w", cause))
}

// Decode converts a response format or a Model into a canonical schema. in
// may be a *ResponseFormat, a ResponseFormat, a Model, a map[string]any or raw
// JSON of a response format. Failures yield belso.FallbackSchema.
func Decode(in any) (res belso.Result[*belso.Schema]) {
	d := belso.NewDiag(dialect)
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("openai decode: panic recovered: %v", r))
		}
	}()
	s, err := decode(in, d)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("openai decode: %w", err))
	}
	belso.Logger().Debug("decoded schema", "dialect", dialect, "schema", s.Name(), "fields", s.Len())
	return belso.Done(s, d)
}

func decode(in any, d *belso.Diag) (*belso.Schema, error) {
	switch t := in.(type) {
	case Model:
		return decodeModel(t, d)
	case *Model:
		if t == nil {
			return nil, errors.New("nil model")
		}
		return decodeModel(*t, d)
	case *ResponseFormat:
		return decodeFormat(t, nil, d)
	case ResponseFormat:
		return decodeFormat(&t, nil, d)
	case []byte:
		return decodeRaw(t, d)
	case json.RawMessage:
		return decodeRaw(t, d)
	case string:
		return decodeRaw([]byte(t), d)
	case map[string]any:
		var rf ResponseFormat
		if err := jsonutil.Convert(t, &rf); err != nil {
			return nil, err
		}
		return decodeFormat(&rf, nil, d)
	}
	return nil, fmt.Errorf("unsupported input %T", in)
}

func decodeModel(m Model, d *belso.Diag) (*belso.Schema, error) {
	body, err := m.Schema()
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", m.Name(), err)
	}
	return jsonschema.DecodeSchema(body, d, jsonschema.DecodeOptions{Name: m.Name()})
}

const bodyPath = "/json_schema/schema"

func decodeRaw(raw []byte, d *belso.Diag) (*belso.Schema, error) {
	var rf ResponseFormat
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, err
	}
	jsonschema.WarnDuplicates(raw, d)
	order := make(map[string][]string)
	for k, v := range jsonutil.KeyOrder(raw) {
		if rest, ok := strings.CutPrefix(k, bodyPath); ok {
			order[rest] = v
		}
	}
	return decodeFormat(&rf, order, d)
}

func decodeFormat(rf *ResponseFormat, order map[string][]string, d *belso.Diag) (*belso.Schema, error) {
	if rf == nil || rf.JSONSchema == nil || rf.JSONSchema.Schema == nil {
		return nil, errors.New("response format carries no json_schema")
	}
	if rf.Type != "" && rf.Type != TypeJSONSchema {
		return nil, fmt.Errorf("response format type %q, want %q", rf.Type, TypeJSONSchema)
	}
	if !rf.JSONSchema.Strict {
		d.Warnf("response format %s is not strict, reading the required list", rf.JSONSchema.Name)
	}
	return jsonschema.DecodeSchema(rf.JSONSchema.Schema, d, jsonschema.DecodeOptions{
		Nullable: rf.JSONSchema.Strict,
		Order:    order,
		Name:     rf.JSONSchema.Name,
	})
}
