package format

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/jsonutil"
)

// EncodeJSON converts s into a JSON-ready Document. On failure the value is
// the ErrorSchema placeholder with no fields.
func EncodeJSON(s *belso.Schema, opts ...Option) belso.Result[*Document] {
	return encodeDoc("json", s, buildOptions(opts))
}

func encodeDoc(codec string, s *belso.Schema, o options) (res belso.Result[*Document]) {
	d := belso.NewDiag(codec)
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(errorDocument(), d, fmt.Errorf("%s encode: panic recovered: %v", codec, r))
		}
	}()
	doc, err := ToDocument(s, o.prefix)
	if err != nil {
		return belso.Failed(errorDocument(), d, fmt.Errorf("%s encode: %w", codec, err))
	}
	return belso.Done(doc, d)
}

// MarshalJSON encodes s as JSON text. Unlike EncodeJSON it reports failures
// as errors.
func MarshalJSON(s *belso.Schema, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	doc, err := ToDocument(s, o.prefix)
	if err != nil {
		return nil, err
	}
	return jsonutil.Marshal(doc, o.indent)
}

// DecodeJSON reads a JSON document. in may be a *Document, a Document, a
// map[string]any or JSON text ([]byte, string). Failures yield
// belso.FallbackSchema with Outcome Fallback.
func DecodeJSON(in any, opts ...Option) (res belso.Result[*belso.Schema]) {
	o := buildOptions(opts)
	d := belso.NewDiag("json")
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("json decode: panic recovered: %v", r))
		}
	}()
	doc, err := parseJSON(in)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("json decode: %w", err))
	}
	switch t := in.(type) {
	case []byte:
		warnDuplicates(t, d)
	case string:
		warnDuplicates([]byte(t), d)
	}
	s, err := FromDocument(doc, o.prefix, d)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("json decode: %w", err))
	}
	return belso.Done(s, d)
}

func warnDuplicates(raw []byte, d *belso.Diag) {
	for _, p := range jsonutil.DuplicateKeys(raw) {
		d.Warnf("duplicate key %s, keeping the last value", p)
	}
}

func parseJSON(in any) (*Document, error) {
	var doc Document
	switch t := in.(type) {
	case *Document:
		if t == nil {
			return nil, fmt.Errorf("nil document")
		}
		return t, nil
	case Document:
		return &t, nil
	case []byte:
		if err := json.Unmarshal(t, &doc); err != nil {
			return nil, err
		}
	case string:
		if err := json.Unmarshal([]byte(t), &doc); err != nil {
			return nil, err
		}
	case map[string]any:
		if err := jsonutil.Convert(t, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported input %T", in)
	}
	return &doc, nil
}
