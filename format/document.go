// Package format serialises canonical schemas as JSON, YAML and XML
// documents and reads them back.
//
// All three codecs share the Document tree:
//
//	schema := { name, fields: [field...] }
//	field  := { name, type, description, required, default?,
//	            schema?, items_type?, items_schema?,
//	            enum?, range?, exclusive_range?, length_range?, items_range?,
//	            properties_range?, regex?, multiple_of?, format? }
//
// Field types use the short names str, int, float, bool, list, dict and any.
// A missing required flag means true. Unlike the provider dialects, the text
// codecs keep defaults on required fields.
package format

import (
	"fmt"

	"github.com/reoring/belso"
)

// ErrorName names the placeholder document returned when encoding fails.
const ErrorName = "ErrorSchema"

// LoadedName names a decoded document that carries no name.
const LoadedName = "LoadedSchema"

// Document is the tree shared by the text codecs.
type Document struct {
	Name   string     `json:"name" yaml:"name"`
	Fields []FieldDoc `json:"fields" yaml:"fields"`
}

// FieldDoc is one field of a Document.
type FieldDoc struct {
	Name        string    `json:"name" yaml:"name"`
	Type        string    `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	Required    *bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any       `json:"default,omitempty" yaml:"default,omitempty"`
	Schema      *Document `json:"schema,omitempty" yaml:"schema,omitempty"`
	ItemsType   string    `json:"items_type,omitempty" yaml:"items_type,omitempty"`
	ItemsSchema *Document `json:"items_schema,omitempty" yaml:"items_schema,omitempty"`

	Enum            []any       `json:"enum,omitempty" yaml:"enum,omitempty"`
	Range           *RangeDoc   `json:"range,omitempty" yaml:"range,omitempty"`
	ExclusiveRange  *RangeDoc   `json:"exclusive_range,omitempty" yaml:"exclusive_range,omitempty"`
	LengthRange     *BoundsDoc  `json:"length_range,omitempty" yaml:"length_range,omitempty"`
	ItemsRange      *BoundsDoc  `json:"items_range,omitempty" yaml:"items_range,omitempty"`
	PropertiesRange *BoundsDoc  `json:"properties_range,omitempty" yaml:"properties_range,omitempty"`
	Regex           string      `json:"regex,omitempty" yaml:"regex,omitempty"`
	MultipleOf      *float64    `json:"multiple_of,omitempty" yaml:"multiple_of,omitempty"`
	Format          string      `json:"format,omitempty" yaml:"format,omitempty"`
}

// RangeDoc is a numeric interval; a missing bound is open.
type RangeDoc struct {
	Min *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max *float64 `json:"max,omitempty" yaml:"max,omitempty"`
}

// BoundsDoc is a count interval; a missing bound is open.
type BoundsDoc struct {
	Min *int `json:"min,omitempty" yaml:"min,omitempty"`
	Max *int `json:"max,omitempty" yaml:"max,omitempty"`
}

// IsRequired reports the required flag, which defaults to true.
func (f FieldDoc) IsRequired() bool { return f.Required == nil || *f.Required }

// errorDocument is the placeholder returned by a failed encode.
func errorDocument() *Document { return &Document{Name: ErrorName, Fields: []FieldDoc{}} }

// TypeName returns the short text-codec name of k.
func TypeName(k belso.Kind) string {
	switch k {
	case belso.KindString:
		return "str"
	case belso.KindInteger:
		return "int"
	case belso.KindFloat:
		return "float"
	case belso.KindBoolean:
		return "bool"
	case belso.KindArray:
		return "list"
	case belso.KindObject:
		return "dict"
	}
	return "any"
}

// addPrefix prefixes name unless it already starts with prefix.
func addPrefix(name, prefix string) string {
	if prefix == "" || len(name) >= len(prefix) && name[:len(prefix)] == prefix {
		return name
	}
	return prefix + name
}

// ToDocument converts s into a Document. The prefix applies to the root name
// only.
func ToDocument(s *belso.Schema, prefix string) (*Document, error) {
	if s == nil {
		return nil, fmt.Errorf("nil schema")
	}
	doc := toDocument(s)
	doc.Name = addPrefix(doc.Name, prefix)
	return doc, nil
}

func toDocument(s *belso.Schema) *Document {
	doc := &Document{Name: s.Name(), Fields: make([]FieldDoc, 0, s.Len())}
	for _, f := range s.Fields() {
		required := f.Required
		fd := FieldDoc{
			Name:        f.Name,
			Type:        TypeName(f.EffectiveKind()),
			Description: f.Description,
			Required:    &required,
			Default:     f.Default,
		}
		switch f.Shape() {
		case belso.ShapeNested:
			fd.Schema = toDocument(f.Schema)
		case belso.ShapeArray:
			if f.Items.IsSchema() {
				fd.ItemsType = TypeName(belso.KindObject)
				fd.ItemsSchema = toDocument(f.Items.Schema)
			} else {
				fd.ItemsType = TypeName(f.Items.Kind)
			}
		}
		c := f.Constraints
		fd.Enum = c.Enum
		if r := c.Range; !r.IsZero() {
			fd.Range = &RangeDoc{Min: r.Min, Max: r.Max}
		}
		if r := c.ExclusiveRange; !r.IsZero() {
			fd.ExclusiveRange = &RangeDoc{Min: r.Min, Max: r.Max}
		}
		if b := c.LengthRange; !b.IsZero() {
			fd.LengthRange = &BoundsDoc{Min: b.Min, Max: b.Max}
		}
		if b := c.ItemsRange; !b.IsZero() {
			fd.ItemsRange = &BoundsDoc{Min: b.Min, Max: b.Max}
		}
		if b := c.PropertiesRange; !b.IsZero() {
			fd.PropertiesRange = &BoundsDoc{Min: b.Min, Max: b.Max}
		}
		fd.Regex = c.Regex
		fd.MultipleOf = c.MultipleOf
		fd.Format = c.Format
		doc.Fields = append(doc.Fields, fd)
	}
	return doc
}

// FromDocument converts a Document back into a canonical schema. The prefix
// applies to the root name only. Unknown field types decode as strings with a
// warning recorded in d.
func FromDocument(doc *Document, prefix string, d *belso.Diag) (*belso.Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	s, err := fromDocument(doc, d)
	if err != nil {
		return nil, err
	}
	return s.WithName(addPrefix(s.Name(), prefix)), nil
}

func fromDocument(doc *Document, d *belso.Diag) (*belso.Schema, error) {
	name := doc.Name
	if name == "" {
		name = LoadedName
	}
	fields := make([]belso.Field, 0, len(doc.Fields))
	for _, fd := range doc.Fields {
		if fd.Name == "" {
			return nil, fmt.Errorf("schema %s: field without name", name)
		}
		var f belso.Field
		switch {
		case fd.Schema != nil:
			nested, err := fromDocument(fd.Schema, d)
			if err != nil {
				return nil, err
			}
			f = belso.Nested(fd.Name, nested)
		case fd.ItemsSchema != nil:
			items, err := fromDocument(fd.ItemsSchema, d)
			if err != nil {
				return nil, err
			}
			f = belso.ArrayOfSchema(fd.Name, items)
		case fd.ItemsType != "":
			f = belso.ArrayOf(fd.Name, kindOf(name, fd.Name, fd.ItemsType, d))
		default:
			f = belso.Scalar(fd.Name, kindOf(name, fd.Name, fd.Type, d))
		}
		f.Description = fd.Description
		f.Required = fd.IsRequired()
		if fd.Default != nil {
			f.Default = f.Kind.Normalize(fd.Default)
		}
		var c belso.Constraints
		for _, e := range fd.Enum {
			c.Enum = append(c.Enum, enumKind(f).Normalize(e))
		}
		if r := fd.Range; r != nil {
			c.Range = &belso.Range{Min: r.Min, Max: r.Max}
		}
		if r := fd.ExclusiveRange; r != nil {
			c.ExclusiveRange = &belso.Range{Min: r.Min, Max: r.Max}
		}
		if b := fd.LengthRange; b != nil {
			c.LengthRange = &belso.Bounds{Min: b.Min, Max: b.Max}
		}
		if b := fd.ItemsRange; b != nil {
			c.ItemsRange = &belso.Bounds{Min: b.Min, Max: b.Max}
		}
		if b := fd.PropertiesRange; b != nil {
			c.PropertiesRange = &belso.Bounds{Min: b.Min, Max: b.Max}
		}
		c.Regex = fd.Regex
		c.MultipleOf = fd.MultipleOf
		c.Format = fd.Format
		f.Constraints = c
		fields = append(fields, f)
	}
	return belso.NewSchemaDiag(d, name, fields...)
}

func enumKind(f belso.Field) belso.Kind {
	if f.Shape() == belso.ShapeScalar {
		return f.Kind
	}
	return belso.KindAny
}

func kindOf(owner, field, name string, d *belso.Diag) belso.Kind {
	k, ok := belso.ParseKind(name)
	if !ok {
		d.Warnf("%s.%s: unknown type %q, using str", owner, field, name)
	}
	return k
}
