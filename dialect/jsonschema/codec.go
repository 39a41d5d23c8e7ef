package jsonschema

import (
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
	js "github.com/google/jsonschema-go/jsonschema"

	"github.com/reoring/belso"
	"github.com/reoring/belso/internal/jsonutil"
)

// DefaultName names a decoded root schema that carries no title.
const DefaultName = "Schema"

// EncodeOptions tune the shared JSON Schema encoder. The flavors in this
// package and the OpenAI dialect are built on it.
type EncodeOptions struct {
	// Strict lists every property as required, turns optional properties into
	// nullable ones and drops all defaults.
	Strict bool
	// Closed sets additionalProperties: false on every object.
	Closed bool
	// Unsupported facets are dropped with a warning.
	Unsupported []belso.Facet
}

// DecodeOptions tune the shared JSON Schema decoder.
type DecodeOptions struct {
	// Nullable treats a [T, "null"] type as the only mark of an optional
	// property; the required list is ignored.
	Nullable bool
	// Order holds raw property order as returned by jsonutil.KeyOrder.
	Order map[string][]string
	// Name is used when the root carries no title.
	Name string
}

var errNilSchema = errors.New("nil schema")

// EncodeSchema converts a canonical schema into a JSON Schema object tree.
func EncodeSchema(s *belso.Schema, d *belso.Diag, o EncodeOptions) (*js.Schema, error) {
	if s == nil {
		return nil, errNilSchema
	}
	return encodeObject(s, d, o)
}

func encodeObject(s *belso.Schema, d *belso.Diag, o EncodeOptions) (*js.Schema, error) {
	obj := &js.Schema{
		Type:       "object",
		Title:      s.Name(),
		Properties: make(map[string]*js.Schema, s.Len()),
	}
	if o.Strict {
		for _, f := range s.Fields() {
			obj.Required = append(obj.Required, f.Name)
		}
	} else {
		obj.Required = s.RequiredNames()
	}
	closeObject(obj, o)
	for _, f := range s.Fields() {
		p, err := encodeField(s.Name(), f, d, o)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", s.Name(), f.Name, err)
		}
		obj.Properties[f.Name] = p
	}
	return obj, nil
}

func encodeField(owner string, f belso.Field, d *belso.Diag, o EncodeOptions) (*js.Schema, error) {
	var p *js.Schema
	switch f.Shape() {
	case belso.ShapeNested:
		nested, err := encodeObject(f.Schema, d, o)
		if err != nil {
			return nil, err
		}
		p = nested
	case belso.ShapeArray:
		p = &js.Schema{Type: "array"}
		if f.Items.IsSchema() {
			items, err := encodeObject(f.Items.Schema, d, o)
			if err != nil {
				return nil, err
			}
			p.Items = items
		} else {
			p.Items = &js.Schema{Type: TypeName(f.Items.Kind)}
			closeObject(p.Items, o)
		}
	default:
		p = &js.Schema{Type: TypeName(f.Kind)}
		closeObject(p, o)
	}
	p.Description = f.Description

	c := f.Constraints
	for _, facet := range o.Unsupported {
		if slices.Contains(c.Facets(), facet) {
			d.Warnf("%s.%s: %s is not supported by this dialect, dropped", owner, f.Name, facet)
			c = c.Without(facet)
		}
	}
	applyConstraints(p, c)

	if o.Strict && !f.Required {
		if p.Type != "" {
			p.Types = []string{p.Type, "null"}
			p.Type = ""
			if len(p.Enum) > 0 && !slices.Contains(p.Enum, any(nil)) {
				p.Enum = append(p.Enum, nil)
			}
		} else {
			d.Warnf("%s.%s: an untyped field cannot be marked nullable, it reads back as required", owner, f.Name)
		}
	}

	if f.HasDefault() {
		switch {
		case o.Strict:
			d.Warnf("%s.%s: defaults are not supported in strict mode, dropped", owner, f.Name)
		case f.Required:
			d.Warnf("%s.%s: default on a required field is not supported, dropped", owner, f.Name)
		default:
			raw, err := json.Marshal(f.Default)
			if err != nil {
				return nil, fmt.Errorf("default: %w", err)
			}
			p.Default = raw
		}
	}
	return p, nil
}

// closeObject forbids additional properties on an object node when o.Closed
// is set.
func closeObject(p *js.Schema, o EncodeOptions) {
	if o.Closed && p.Type == "object" {
		p.AdditionalProperties = &js.Schema{Not: &js.Schema{}}
	}
}

func applyConstraints(p *js.Schema, c belso.Constraints) {
	if len(c.Enum) > 0 {
		p.Enum = slices.Clone(c.Enum)
	}
	if r := c.Range; r != nil {
		p.Minimum, p.Maximum = r.Min, r.Max
	}
	if r := c.ExclusiveRange; r != nil {
		p.ExclusiveMinimum, p.ExclusiveMaximum = r.Min, r.Max
	}
	if b := c.LengthRange; b != nil {
		p.MinLength, p.MaxLength = b.Min, b.Max
	}
	if b := c.ItemsRange; b != nil {
		p.MinItems, p.MaxItems = b.Min, b.Max
	}
	if b := c.PropertiesRange; b != nil {
		p.MinProperties, p.MaxProperties = b.Min, b.Max
	}
	p.Pattern = c.Regex
	p.MultipleOf = c.MultipleOf
	if c.Format != "" {
		p.Format = c.Format
	}
}

// TypeName maps a kind to its JSON Schema type keyword. KindAny has none.
func TypeName(k belso.Kind) string {
	switch k {
	case belso.KindString:
		return "string"
	case belso.KindInteger:
		return "integer"
	case belso.KindFloat:
		return "number"
	case belso.KindBoolean:
		return "boolean"
	case belso.KindArray:
		return "array"
	case belso.KindObject:
		return "object"
	}
	return ""
}

// DecodeSchema converts a JSON Schema object tree into a canonical schema.
func DecodeSchema(root *js.Schema, d *belso.Diag, o DecodeOptions) (*belso.Schema, error) {
	if root == nil {
		return nil, errNilSchema
	}
	if t, _ := typeOf(root); t != "object" && t != "" {
		return nil, fmt.Errorf("root type is %q, want object", t)
	}
	name := o.Name
	if name == "" {
		name = DefaultName
	}
	return decodeObject(root, name, "", d, o)
}

func decodeObject(sch *js.Schema, name, path string, d *belso.Diag, o DecodeOptions) (*belso.Schema, error) {
	if sch.Title != "" {
		name = sch.Title
	}
	required := make(map[string]bool, len(sch.Required))
	for _, r := range sch.Required {
		required[r] = true
	}
	keys := jsonutil.OrderKeys(sch.Properties, o.Order[jsonutil.Join(path, "properties")], sch.Required)
	fields := make([]belso.Field, 0, len(keys))
	for _, key := range keys {
		p := sch.Properties[key]
		if p == nil {
			d.Warnf("%s.%s: empty property, skipped", name, key)
			continue
		}
		f, err := decodeField(name, key, p, jsonutil.Join(path, "properties", key), d, o)
		if err != nil {
			return nil, err
		}
		_, nullable := typeOf(p)
		if o.Nullable {
			f.Required = !nullable
		} else {
			f.Required = required[key]
		}
		fields = append(fields, f)
	}
	return belso.NewSchemaDiag(d, name, fields...)
}

func decodeField(owner, key string, p *js.Schema, path string, d *belso.Diag, o DecodeOptions) (belso.Field, error) {
	t, _ := typeOf(p)
	var f belso.Field
	switch {
	case t == "object" && len(p.Properties) > 0:
		nested, err := decodeObject(p, key, path, d, o)
		if err != nil {
			return f, err
		}
		f = belso.Nested(key, nested)
	case t == "array" && p.Items != nil:
		it, _ := typeOf(p.Items)
		if it == "object" && len(p.Items.Properties) > 0 {
			items, err := decodeObject(p.Items, key, jsonutil.Join(path, "items"), d, o)
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
	f.Constraints = readConstraints(p, f)
	if len(p.Default) > 0 {
		var v any
		if err := json.Unmarshal(p.Default, &v); err != nil {
			return f, fmt.Errorf("%s.%s: default: %w", owner, key, err)
		}
		f.Default = f.Kind.Normalize(v)
	}
	return f, nil
}

func readConstraints(p *js.Schema, f belso.Field) belso.Constraints {
	var c belso.Constraints
	for _, e := range p.Enum {
		// null only widens an optional enum in strict mode
		if e == nil {
			continue
		}
		c.Enum = append(c.Enum, f.Kind.Normalize(e))
	}
	if p.Minimum != nil || p.Maximum != nil {
		c.Range = &belso.Range{Min: p.Minimum, Max: p.Maximum}
	}
	if p.ExclusiveMinimum != nil || p.ExclusiveMaximum != nil {
		c.ExclusiveRange = &belso.Range{Min: p.ExclusiveMinimum, Max: p.ExclusiveMaximum}
	}
	if p.MinLength != nil || p.MaxLength != nil {
		c.LengthRange = &belso.Bounds{Min: p.MinLength, Max: p.MaxLength}
	}
	if p.MinItems != nil || p.MaxItems != nil {
		c.ItemsRange = &belso.Bounds{Min: p.MinItems, Max: p.MaxItems}
	}
	if p.MinProperties != nil || p.MaxProperties != nil {
		c.PropertiesRange = &belso.Bounds{Min: p.MinProperties, Max: p.MaxProperties}
	}
	c.Regex = p.Pattern
	c.MultipleOf = p.MultipleOf
	c.Format = p.Format
	return c
}

// typeOf returns the non-null type of p and whether "null" is allowed.
func typeOf(p *js.Schema) (string, bool) {
	if p.Type != "" {
		return p.Type, p.Type == "null"
	}
	var t string
	nullable := false
	for _, x := range p.Types {
		if x == "null" {
			nullable = true
		} else if t == "" {
			t = x
		}
	}
	return t, nullable
}

func kindOf(owner, key, t string, d *belso.Diag) belso.Kind {
	switch t {
	case "":
		return belso.KindAny
	case "null":
		return belso.KindAny
	}
	k, ok := belso.ParseKind(t)
	if !ok {
		d.Warnf("%s.%s: unknown type %q, using string", owner, key, t)
	}
	return k
}
