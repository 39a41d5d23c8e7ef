// Package google translates canonical schemas to and from Gemini response
// schemas (*genai.Schema).
//
// Gemini carries enum values as strings; they are converted back to the
// field kind on decode. Exclusive ranges and multiple_of have no Gemini
// equivalent and are dropped with a warning.
package google

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
	json "github.com/goccy/go-json"
	"google.golang.org/genai"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/jsonutil"
)

const dialect = "google"

// DefaultName names a decoded root schema that carries no title.
const DefaultName = "Schema"

var unsupported = []belso.Facet{belso.FacetExclusiveRange, belso.FacetMultipleOf}

var errNilSchema = errors.New("nil schema")

// Encode converts s into a Gemini schema. It never fails: errors and panics
// yield the fallback schema with Outcome Fallback.
func Encode(s *belso.Schema) (res belso.Result[*genai.Schema]) {
	d := belso.NewDiag(dialect)
	defer func() {
		if r := recover(); r != nil {
			res = fallback(d, fmt.Errorf("panic recovered: %v", r))
		}
	}()
	if s == nil {
		return fallback(d, errNilSchema)
	}
	out, err := encodeObject(s, d)
	if err != nil {
		return fallback(d, err)
	}
	belso.Logger().Debug("encoded schema", "dialect", dialect, "schema", s.Name(), "fields", s.Len())
	return belso.Done(out, d)
}

func fallback(d *belso.Diag, cause error) belso.Result[*genai.Schema] {
	out, err := encodeObject(belso.FallbackSchema(), nil)
	if err != nil {
		panic(err)
	}
	return belso.Failed(out, d, fmt.Errorf("google encode: %w", cause))
}

func encodeObject(s *belso.Schema, d *belso.Diag) (*genai.Schema, error) {
	obj := &genai.Schema{
		Type:       genai.TypeObject,
		Title:      s.Name(),
		Properties: make(map[string]*genai.Schema, s.Len()),
		Required:   s.RequiredNames(),
	}
	for _, f := range s.Fields() {
		p, err := encodeField(s.Name(), f, d)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name(), f.Name, err)
		}
		obj.Properties[f.Name] = p
		obj.PropertyOrdering = append(obj.PropertyOrdering, f.Name)
	}
	return obj, nil
}

func encodeField(owner string, f belso.Field, d *belso.Diag) (*genai.Schema, error) {
	var p *genai.Schema
	switch f.Shape() {
	case belso.ShapeNested:
		nested, err := encodeObject(f.Schema, d)
		if err != nil {
			return nil, err
		}
		p = nested
	case belso.ShapeArray:
		p = &genai.Schema{Type: genai.TypeArray}
		if f.Items.IsSchema() {
			items, err := encodeObject(f.Items.Schema, d)
			if err != nil {
				return nil, err
			}
			p.Items = items
		} else {
			p.Items = &genai.Schema{Type: TypeFor(f.Items.Kind)}
		}
	default:
		p = &genai.Schema{Type: TypeFor(f.Kind)}
	}
	p.Description = f.Description

	c := f.Constraints
	for _, facet := range unsupported {
		if slices.Contains(c.Facets(), facet) {
			d.Warnf("%s.%s: %s is not supported by this dialect, dropped", owner, f.Name, facet)
			c = c.Without(facet)
		}
	}
	for _, e := range c.Enum {
		p.Enum = append(p.Enum, enumString(e))
	}
	if r := c.Range; r != nil {
		p.Minimum, p.Maximum = r.Min, r.Max
	}
	if b := c.LengthRange; b != nil {
		p.MinLength, p.MaxLength = widen(b.Min), widen(b.Max)
	}
	if b := c.ItemsRange; b != nil {
		p.MinItems, p.MaxItems = widen(b.Min), widen(b.Max)
	}
	if b := c.PropertiesRange; b != nil {
		p.MinProperties, p.MaxProperties = widen(b.Min), widen(b.Max)
	}
	p.Pattern = c.Regex
	if c.Format != "" {
		p.Format = c.Format
	}

	if f.HasDefault() {
		if f.Required {
			d.Warnf("%s.%s: default on a required field is not supported, dropped", owner, f.Name)
		} else {
			if _, err := json.Marshal(f.Default); err != nil {
				return nil, fmt.Errorf("default: %w", err)
			}
			p.Default = f.Default
		}
	}
	return p, nil
}

// TypeFor maps a kind to its Gemini type. KindAny is unspecified.
func TypeFor(k belso.Kind) genai.Type {
	switch k {
	case belso.KindString:
		return genai.TypeString
	case belso.KindInteger:
		return genai.TypeInteger
	case belso.KindFloat:
		return genai.TypeNumber
	case belso.KindBoolean:
		return genai.TypeBoolean
	case belso.KindArray:
		return genai.TypeArray
	case belso.KindObject:
		return genai.TypeObject
	}
	return genai.TypeUnspecified
}

// KindFor maps a Gemini type to a kind. The second result is false for types
// that are not recognised.
func KindFor(t genai.Type) (belso.Kind, bool) {
	switch t {
	case genai.TypeString:
		return belso.KindString, true
	case genai.TypeInteger:
		return belso.KindInteger, true
	case genai.TypeNumber:
		return belso.KindFloat, true
	case genai.TypeBoolean:
		return belso.KindBoolean, true
	case genai.TypeArray:
		return belso.KindArray, true
	case genai.TypeObject:
		return belso.KindObject, true
	case genai.TypeUnspecified, genai.TypeNULL:
		return belso.KindAny, true
	}
	return belso.KindString, false
}

func enumString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	}
	return fmt.Sprint(v)
}

func widen(p *int) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

// Decode converts a Gemini schema into a canonical schema. in may be a
// *genai.Schema, a genai.Schema, a map[string]any or raw JSON. Failures
// yield belso.FallbackSchema with Outcome Fallback.
func Decode(in any) (res belso.Result[*belso.Schema]) {
	d := belso.NewDiag(dialect)
	defer func() {
		if r := recover(); r != nil {
			res = belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("google decode: panic recovered: %v", r))
		}
	}()
	root, err := parse(in)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("google decode: %w", err))
	}
	if t := typeOf(root); t != genai.TypeObject && t != genai.TypeUnspecified {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("google decode: root type is %s, want OBJECT", t))
	}
	s, err := decodeObject(root, DefaultName, d)
	if err != nil {
		return belso.Failed(belso.FallbackSchema(), d, fmt.Errorf("google decode: %w", err))
	}
	belso.Logger().Debug("decoded schema", "dialect", dialect, "schema", s.Name(), "fields", s.Len())
	return belso.Done(s, d)
}

func parse(in any) (*genai.Schema, error) {
	switch t := in.(type) {
	case *genai.Schema:
		if t == nil {
			return nil, errNilSchema
		}
		return t, nil
	case genai.Schema:
		return &t, nil
	case []byte:
		return parseRaw(t)
	case string:
		return parseRaw([]byte(t))
	case map[string]any:
		var sch genai.Schema
		if err := jsonutil.Convert(t, &sch); err != nil {
			return nil, err
		}
		return &sch, nil
	case nil:
		return nil, errNilSchema
	}
	return nil, fmt.Errorf("unsupported input %T", in)
}

func parseRaw(raw []byte) (*genai.Schema, error) {
	var sch genai.Schema
	if err := json.Unmarshal(raw, &sch); err != nil {
		return nil, err
	}
	return &sch, nil
}

func decodeObject(sch *genai.Schema, name string, d *belso.Diag) (*belso.Schema, error) {
	if sch.Title != "" {
		name = sch.Title
	}
	required := make(map[string]bool, len(sch.Required))
	for _, r := range sch.Required {
		required[r] = true
	}
	keys := jsonutil.OrderKeys(sch.Properties, sch.PropertyOrdering, sch.Required)
	fields := make([]belso.Field, 0, len(keys))
	for _, key := range keys {
		p := sch.Properties[key]
		if p == nil {
			d.Warnf("%s.%s: empty property, skipped", name, key)
			continue
		}
		f, err := decodeField(name, key, p, d)
		if err != nil {
			return nil, err
		}
		f.Required = required[key]
		fields = append(fields, f)
	}
	return belso.NewSchemaDiag(d, name, fields...)
}

func decodeField(owner, key string, p *genai.Schema, d *belso.Diag) (belso.Field, error) {
	var f belso.Field
	t := typeOf(p)
	switch {
	case t == genai.TypeObject && len(p.Properties) > 0:
		nested, err := decodeObject(p, key, d)
		if err != nil {
			return f, err
		}
		f = belso.Nested(key, nested)
	case t == genai.TypeArray && p.Items != nil:
		it := typeOf(p.Items)
		if it == genai.TypeObject && len(p.Items.Properties) > 0 {
			items, err := decodeObject(p.Items, key, d)
			if err != nil {
				return f, err
			}
			f = belso.ArrayOfSchema(key, items)
		} else {
			f = belso.ArrayOf(key, kindOf(owner, key, it, d))
		}
	default:
		f = belso.Scalar(key, kindOf(owner, key, t, d))
	}
	f.Description = p.Description

	c, err := readConstraints(p, f.Kind, d)
	if err != nil {
		return f, fmt.Errorf("%s.%s: %w", owner, key, err)
	}
	f.Constraints = c
	if p.Default != nil {
		f.Default = f.Kind.Normalize(p.Default)
	}
	return f, nil
}

// typeOf reads the type of p case-insensitively. An untyped schema with
// properties is an object.
func typeOf(p *genai.Schema) genai.Type {
	t := genai.Type(strings.ToUpper(string(p.Type)))
	if t == "" || t == genai.TypeUnspecified {
		if len(p.Properties) > 0 {
			return genai.TypeObject
		}
		return genai.TypeUnspecified
	}
	return t
}

func kindOf(owner, key string, t genai.Type, d *belso.Diag) belso.Kind {
	k, ok := KindFor(t)
	if !ok {
		d.Warnf("%s.%s: unknown type %q, using string", owner, key, t)
	}
	return k
}

func readConstraints(p *genai.Schema, k belso.Kind, d *belso.Diag) (belso.Constraints, error) {
	var c belso.Constraints
	for _, e := range p.Enum {
		c.Enum = append(c.Enum, enumValue(k, e, d))
	}
	if p.Minimum != nil || p.Maximum != nil {
		c.Range = &belso.Range{Min: p.Minimum, Max: p.Maximum}
	}
	var err error
	if c.LengthRange, err = narrow(p.MinLength, p.MaxLength); err != nil {
		return c, err
	}
	if c.ItemsRange, err = narrow(p.MinItems, p.MaxItems); err != nil {
		return c, err
	}
	if c.PropertiesRange, err = narrow(p.MinProperties, p.MaxProperties); err != nil {
		return c, err
	}
	c.Regex = p.Pattern
	c.Format = p.Format
	return c, nil
}

// enumValue converts a Gemini enum string back to the field kind. Values that
// do not parse stay strings.
func enumValue(k belso.Kind, s string, d *belso.Diag) any {
	var (
		v   any
		err error
	)
	switch k {
	case belso.KindInteger:
		v, err = strconv.Atoi(s)
	case belso.KindFloat:
		v, err = strconv.ParseFloat(s, 64)
	case belso.KindBoolean:
		v, err = strconv.ParseBool(s)
	default:
		return s
	}
	if err != nil {
		d.Warnf("enum value %q is not a valid %s, kept as string", s, k)
		return s
	}
	return v
}

func narrow(lo, hi *int64) (*belso.Bounds, error) {
	if lo == nil && hi == nil {
		return nil, nil
	}
	b := &belso.Bounds{}
	for _, pair := range []struct {
		src *int64
		dst **int
	}{{lo, &b.Min}, {hi, &b.Max}} {
		if pair.src == nil {
			continue
		}
		n, err := safecast.Conv[int](*pair.src)
		if err != nil {
			return nil, err
		}
		*pair.dst = &n
	}
	return b, nil
}
