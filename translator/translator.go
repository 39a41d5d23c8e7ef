// Package translator is the entry point for moving schemas between dialects.
// Every translation decodes the source into the canonical *belso.Schema and
// encodes that into the target:
//
//	res, err := translator.Translate(raw, translator.OpenAI)
//	if err != nil {
//		return err // unknown dialect
//	}
//	if res.IsFallback() {
//		log.Println("translation failed:", res.Cause)
//	}
//	rf := res.Value.(*openai.ResponseFormat)
//
// Translation is best-effort and reports losses through belso.Result; only an
// unknown dialect is an error.
package translator

import (
	"fmt"

	"github.com/reoring/belso"
	"github.com/reoring/belso/dialect/google"
	"github.com/reoring/belso/dialect/jsonschema"
	"github.com/reoring/belso/dialect/openai"
	"github.com/reoring/belso/format"
)

type translator struct {
	encode func(s *belso.Schema, o options) belso.Result[any]
	decode func(in any, o options) belso.Result[*belso.Schema]
}

// translators is indexed by Dialect. Unknown has no entry.
var translators = [...]translator{
	Unknown:     {},
	Canonical:   {encode: encodeCanonical, decode: decodeCanonical},
	Google:      {encode: wrap(google.Encode), decode: plain(google.Decode)},
	OpenAI:      {encode: wrap(openai.Encode), decode: plain(openai.Decode)},
	Anthropic:   flavor(jsonschema.Anthropic),
	Ollama:      flavor(jsonschema.Ollama),
	HuggingFace: flavor(jsonschema.HuggingFace),
	Mistral:     flavor(jsonschema.Mistral),
	LangChain:   flavor(jsonschema.LangChain),
	JSON: {
		encode: func(s *belso.Schema, o options) belso.Result[any] {
			return erase(format.EncodeJSON(s, o.format()...))
		},
		decode: func(in any, o options) belso.Result[*belso.Schema] { return format.DecodeJSON(in, o.format()...) },
	},
	XML: {
		encode: func(s *belso.Schema, o options) belso.Result[any] {
			return erase(format.EncodeXML(s, o.format()...))
		},
		decode: func(in any, o options) belso.Result[*belso.Schema] { return format.DecodeXML(in, o.format()...) },
	},
	YAML: {
		encode: func(s *belso.Schema, o options) belso.Result[any] {
			return erase(format.EncodeYAML(s, o.format()...))
		},
		decode: func(in any, o options) belso.Result[*belso.Schema] { return format.DecodeYAML(in, o.format()...) },
	},
}

// Fails to compile when a dialect is added without a dispatch entry.
var (
	_ [len(translators) - int(dialectCount)]struct{}
	_ [int(dialectCount) - len(translators)]struct{}
)

func erase[T any](r belso.Result[T]) belso.Result[any] {
	return belso.Map(r, func(v T) any { return v })
}

func wrap[T any](enc func(*belso.Schema) belso.Result[T]) func(*belso.Schema, options) belso.Result[any] {
	return func(s *belso.Schema, _ options) belso.Result[any] { return erase(enc(s)) }
}

func plain(dec func(any) belso.Result[*belso.Schema]) func(any, options) belso.Result[*belso.Schema] {
	return func(in any, _ options) belso.Result[*belso.Schema] { return dec(in) }
}

func flavor(f jsonschema.Flavor) translator {
	return translator{
		encode: func(s *belso.Schema, _ options) belso.Result[any] { return erase(jsonschema.Encode(s, f)) },
		decode: func(in any, _ options) belso.Result[*belso.Schema] { return jsonschema.Decode(in, f) },
	}
}

func encodeCanonical(s *belso.Schema, _ options) belso.Result[any] {
	if s == nil {
		d := belso.NewDiag("belso")
		return belso.Failed[any](belso.FallbackSchema(), d, fmt.Errorf("belso encode: nil schema"))
	}
	return belso.Result[any]{Value: s}
}

func decodeCanonical(in any, _ options) belso.Result[*belso.Schema] {
	d := belso.NewDiag("belso")
	switch t := in.(type) {
	case *belso.Schema:
		if t != nil {
			return belso.Done(t, d)
		}
	case belso.Schema:
		return belso.Done(&t, d)
	}
	return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("belso decode: unsupported input %T", in))
}

// source resolves the dialect of in, preferring an explicit From option.
func source(in any, o options) (Dialect, error) {
	src := o.from
	if src == Unknown {
		src = Detect(in)
	}
	if !src.valid() {
		return Unknown, &UnsupportedDialectError{Name: src.String()}
	}
	return src, nil
}

// Standardize decodes in into the canonical model. The source dialect is
// detected unless From is given; an undetectable source is an
// *UnsupportedDialectError.
func Standardize(in any, opts ...Option) (belso.Result[*belso.Schema], error) {
	o := buildOptions(opts)
	src, err := source(in, o)
	if err != nil {
		belso.Logger().Error("standardize: unsupported source", "input", fmt.Sprintf("%T", in), "err", err)
		return belso.Result[*belso.Schema]{}, err
	}
	belso.Logger().Debug("standardize", "from", src.String())
	return translators[src].decode(in, o), nil
}

// Translate converts in into dialect to. The value of the result has the
// representation type of the target:
//
//	Canonical                  *belso.Schema
//	Google                     *genai.Schema
//	OpenAI                     *openai.ResponseFormat
//	Anthropic ... HuggingFace  *jsonschema.Schema (google/jsonschema-go)
//	JSON                       *format.Document
//	XML, YAML                  string
//
// Warnings of both steps are merged; the worse outcome wins.
func Translate(in any, to Dialect, opts ...Option) (belso.Result[any], error) {
	if !to.valid() {
		err := &UnsupportedDialectError{Name: to.String()}
		belso.Logger().Error("translate: unsupported target", "err", err)
		return belso.Result[any]{}, err
	}
	o := buildOptions(opts)
	dec, err := Standardize(in, opts...)
	if err != nil {
		return belso.Result[any]{}, err
	}
	enc := translators[to].encode(dec.Value, o)
	belso.Logger().Debug("translate", "to", to.String(), "outcome", enc.Outcome.String())
	return merge(dec, enc), nil
}

func merge(dec belso.Result[*belso.Schema], enc belso.Result[any]) belso.Result[any] {
	out := enc
	out.Outcome = max(dec.Outcome, enc.Outcome)
	if len(dec.Warnings) > 0 {
		out.Warnings = append(append([]string(nil), dec.Warnings...), enc.Warnings...)
	}
	if out.Cause == nil {
		out.Cause = dec.Cause
	}
	return out
}

// Save writes s to path in the codec named by its extension (.json, .xml,
// .yaml, .yml). Other extensions are logged and ignored.
func Save(s *belso.Schema, path string, opts ...Option) error {
	if _, ok := format.CodecFor(path); !ok {
		belso.Logger().Warn("save: unsupported file extension, nothing written", "path", path)
		return nil
	}
	return format.SaveFile(s, path, buildOptions(opts).format()...)
}

// Load reads a schema from path in the codec named by its extension. Other
// extensions are logged and yield a nil schema. Content that does not decode
// yields belso.FallbackSchema.
func Load(path string, opts ...Option) (*belso.Schema, error) {
	if _, ok := format.CodecFor(path); !ok {
		belso.Logger().Warn("load: unsupported file extension, nothing read", "path", path)
		return nil, nil
	}
	res, err := format.LoadFile(path, buildOptions(opts).format()...)
	if err != nil {
		return nil, err
	}
	return res.Value, nil
}

// Validate checks data against s; see belso.Validate.
func Validate(data any, s *belso.Schema) (map[string]any, error) {
	return belso.Validate(data, s)
}
