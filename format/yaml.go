package format

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/jsonutil"
)

const errorYAML = "name: ErrorSchema\nfields: []\n"

// EncodeYAML encodes s as YAML text. On failure the value is the ErrorSchema
// placeholder with no fields.
func EncodeYAML(s *belso.Schema, opts ...Option) (res belso.Result[string]) {
	o := buildOptions(opts)
	d := belso.NewDiag("yaml")
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(errorYAML, d, fmt.Errorf("yaml encode: panic recovered: %v", r))
		}
	}()
	out, err := marshalYAML(s, o)
	if err != nil {
		return belso.Failed(errorYAML, d, fmt.Errorf("yaml encode: %w", err))
	}
	return belso.Done(string(out), d)
}

// MarshalYAML encodes s as YAML text and reports failures as errors.
func MarshalYAML(s *belso.Schema, opts ...Option) ([]byte, error) {
	return marshalYAML(s, buildOptions(opts))
}

func marshalYAML(s *belso.Schema, o options) ([]byte, error) {
	doc, err := ToDocument(s, o.prefix)
	if err != nil {
		return nil, err
	}
	var n yaml.Node
	if err := n.Encode(doc); err != nil {
		return nil, err
	}
	quoteIndented(&n)
	return yaml.Marshal(&n)
}

// quoteIndented double-quotes string scalars that start with whitespace.
// Block scalars with a leading indented line lose that indentation on read.
func quoteIndented(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" &&
		strings.TrimLeft(n.Value, " \t") != n.Value {
		n.Style = yaml.DoubleQuotedStyle
	}
	for _, c := range n.Content {
		quoteIndented(c)
	}
}

// DecodeYAML reads a YAML document from text ([]byte, string), a *Document
// or a map[string]any. Failures yield belso.FallbackSchema with Outcome
// Fallback.
func DecodeYAML(in any, opts ...Option) (res belso.Result[*belso.Schema]) {
	o := buildOptions(opts)
	d := belso.NewDiag("yaml")
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("yaml decode: panic recovered: %v", r))
		}
	}()
	doc, err := parseYAML(in)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("yaml decode: %w", err))
	}
	s, err := FromDocument(doc, o.prefix, d)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("yaml decode: %w", err))
	}
	return belso.Done(s, d)
}

func parseYAML(in any) (*Document, error) {
	var raw []byte
	switch t := in.(type) {
	case *Document, Document, map[string]any:
		return parseJSON(t)
	case []byte:
		raw = t
	case string:
		raw = []byte(t)
	default:
		return nil, fmt.Errorf("unsupported input %T", in)
	}
	// Normalise through the generic tree so nested YAML maps become JSON
	// objects before the strict struct decode.
	m, err := jsonutil.UnmarshalYAML(raw)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := jsonutil.Convert(m, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
