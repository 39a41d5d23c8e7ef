package belso

import "slices"

// Shape tells which variant of Field is populated.
type Shape int

const (
	ShapeScalar Shape = iota // Kind + Constraints.
	ShapeNested              // Schema.
	ShapeArray               // Items.
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeNested:
		return "nested"
	case ShapeArray:
		return "array"
	}
	return "invalid"
}

// Items describes the elements of an array field: either a scalar Kind or,
// when Schema is set, a record schema.
type Items struct {
	Kind   Kind
	Schema *Schema
}

// IsSchema reports whether the elements are records.
func (it *Items) IsSchema() bool { return it != nil && it.Schema != nil }

// Field is one named entry of a Schema. Exactly one shape is populated:
// Schema for nested fields, Items for arrays, Kind alone for scalars.
//
// Default is nil when the field has no default. Fields built by the
// constructors below are required; use Optional to relax them.
type Field struct {
	Name        string
	Description string
	Required    bool
	Default     any

	Kind        Kind
	Constraints Constraints

	Schema *Schema
	Items  *Items
}

// Shape returns the populated variant.
func (f Field) Shape() Shape {
	switch {
	case f.Schema != nil:
		return ShapeNested
	case f.Items != nil:
		return ShapeArray
	}
	return ShapeScalar
}

// EffectiveKind is the kind the constraint table is checked against: Object
// for nested fields, Array for arrays, Kind otherwise.
func (f Field) EffectiveKind() Kind {
	switch f.Shape() {
	case ShapeNested:
		return KindObject
	case ShapeArray:
		return KindArray
	}
	return f.Kind
}

// HasDefault reports whether a default value is set.
func (f Field) HasDefault() bool { return f.Default != nil }

func scalar(name string, k Kind) Field { return Field{Name: name, Kind: k, Required: true} }

// String declares a required string field.
func String(name string) Field { return scalar(name, KindString) }

// Integer declares a required integer field.
func Integer(name string) Field { return scalar(name, KindInteger) }

// Float declares a required float field.
func Float(name string) Field { return scalar(name, KindFloat) }

// Boolean declares a required boolean field.
func Boolean(name string) Field { return scalar(name, KindBoolean) }

// List declares a required array field whose element kind is unknown.
func List(name string) Field { return scalar(name, KindArray) }

// Dict declares a required object field whose properties are unknown.
func Dict(name string) Field { return scalar(name, KindObject) }

// Any declares a required field accepting any value.
func Any(name string) Field { return scalar(name, KindAny) }

// Scalar declares a required field of kind k.
func Scalar(name string, k Kind) Field { return scalar(name, k) }

// Nested declares a required field holding an object shaped by s.
func Nested(name string, s *Schema) Field {
	return Field{Name: name, Kind: KindObject, Required: true, Schema: s}
}

// ArrayOf declares a required array of scalar elements of kind k.
func ArrayOf(name string, k Kind) Field {
	return Field{Name: name, Kind: KindArray, Required: true, Items: &Items{Kind: k}}
}

// ArrayOfSchema declares a required array of records shaped by s.
func ArrayOfSchema(name string, s *Schema) Field {
	return Field{Name: name, Kind: KindArray, Required: true, Items: &Items{Kind: KindObject, Schema: s}}
}

// Describe sets the description.
func (f Field) Describe(d string) Field {
	f.Description = d
	return f
}

// Optional marks the field as not required.
func (f Field) Optional() Field {
	f.Required = false
	return f
}

// WithRequired sets the required flag explicitly.
func (f Field) WithRequired(r bool) Field {
	f.Required = r
	return f
}

// WithDefault sets the default value.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// WithEnum restricts the field to the given values.
func (f Field) WithEnum(values ...any) Field {
	f.Constraints.Enum = slices.Clone(values)
	return f
}

// WithRange sets an inclusive numeric range.
func (f Field) WithRange(r *Range) Field {
	f.Constraints.Range = r
	return f
}

// WithExclusiveRange sets an exclusive numeric range.
func (f Field) WithExclusiveRange(r *Range) Field {
	f.Constraints.ExclusiveRange = r
	return f
}

// WithLength bounds the length of a string.
func (f Field) WithLength(b *Bounds) Field {
	f.Constraints.LengthRange = b
	return f
}

// WithItems bounds the number of array elements.
func (f Field) WithItems(b *Bounds) Field {
	f.Constraints.ItemsRange = b
	return f
}

// WithProperties bounds the number of object properties.
func (f Field) WithProperties(b *Bounds) Field {
	f.Constraints.PropertiesRange = b
	return f
}

// WithRegex sets the pattern a string must match.
func (f Field) WithRegex(re string) Field {
	f.Constraints.Regex = re
	return f
}

// WithMultipleOf requires numbers to be a multiple of m.
func (f Field) WithMultipleOf(m float64) Field {
	f.Constraints.MultipleOf = &m
	return f
}

// WithFormat sets a string format hint such as "email" or "date-time".
func (f Field) WithFormat(format string) Field {
	f.Constraints.Format = format
	return f
}

// WithConstraints replaces all constraints.
func (f Field) WithConstraints(c Constraints) Field {
	f.Constraints = c
	return f
}
