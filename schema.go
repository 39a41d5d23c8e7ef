package belso

import (
	"fmt"
	"math"
	"reflect"
	"slices"
)

// FallbackName is the name of the placeholder returned by failed decodes.
const FallbackName = "FallbackSchema"

// Schema is a named, ordered list of fields. It is immutable once built;
// nested schemas may be shared between fields and schemas.
type Schema struct {
	name   string
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema. Constraints that the field's kind does not
// support are dropped with a logged warning. Two fields with the same name
// yield a *DuplicateFieldError.
func NewSchema(name string, fields ...Field) (*Schema, error) {
	return NewSchemaDiag(nil, name, fields...)
}

// NewSchemaDiag is NewSchema that also records the dropped constraints in d.
func NewSchemaDiag(d *Diag, name string, fields ...Field) (*Schema, error) {
	s := &Schema{
		name:   name,
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if _, dup := s.index[f.Name]; dup {
			return nil, &DuplicateFieldError{Schema: name, Field: f.Name}
		}
		if !f.Kind.Valid() {
			return nil, fmt.Errorf("schema %s: field %q: invalid kind %d", name, f.Name, int(f.Kind))
		}
		if f.Items != nil && !f.Items.IsSchema() && !f.Items.Kind.Valid() {
			return nil, fmt.Errorf("schema %s: field %q: invalid item kind %d", name, f.Name, int(f.Items.Kind))
		}
		kept, dropped := f.Constraints.FilterFor(f.EffectiveKind())
		for _, facet := range dropped {
			d.Warnf("schema %s: field %s: %s is not valid for %s, dropped", name, f.Name, facet, f.EffectiveKind())
		}
		f.Constraints = kept
		f.Constraints.Enum = slices.Clone(f.Constraints.Enum)
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error.
func MustSchema(name string, fields ...Field) *Schema {
	s, err := NewSchema(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// FallbackSchema returns the placeholder used when a decode cannot produce a
// schema: a single required string field "text".
func FallbackSchema() *Schema {
	return MustSchema(FallbackName, String("text").Describe("Fallback field"))
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Fields returns the fields in declaration order. The slice is a copy.
func (s *Schema) Fields() []Field { return slices.Clone(s.fields) }

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// RequiredNames lists the names of required fields in declaration order.
func (s *Schema) RequiredNames() []string {
	var out []string
	for _, f := range s.fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out
}

// WithName returns a copy of s under another name. Fields are shared.
func (s *Schema) WithName(name string) *Schema {
	cp := *s
	cp.name = name
	return &cp
}

// IsFallback reports whether s is the placeholder built by FallbackSchema.
func (s *Schema) IsFallback() bool {
	if s == nil || s.name != FallbackName || len(s.fields) != 1 {
		return false
	}
	f := s.fields[0]
	return f.Name == "text" && f.Kind == KindString && f.Shape() == ShapeScalar
}

// Equal reports whether s and o describe the same tree. Numbers in enums and
// defaults compare by value, so 3 and 3.0 are equal.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.name != o.name || len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if !fieldEqual(s.fields[i], o.fields[i], (*Schema).Equal) {
			return false
		}
	}
	return true
}

// Equivalent is Equal without regard to field order, at every level.
func (s *Schema) Equivalent(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.name != o.name || len(s.fields) != len(o.fields) {
		return false
	}
	for _, f := range s.fields {
		g, ok := o.Field(f.Name)
		if !ok || !fieldEqual(f, g, (*Schema).Equivalent) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b Field, same func(x, y *Schema) bool) bool {
	if a.Name != b.Name || a.Description != b.Description || a.Required != b.Required ||
		a.Shape() != b.Shape() || a.EffectiveKind() != b.EffectiveKind() {
		return false
	}
	if !ValuesEqual(a.Default, b.Default) || !constraintsEqual(a.Constraints, b.Constraints) {
		return false
	}
	switch a.Shape() {
	case ShapeNested:
		return same(a.Schema, b.Schema)
	case ShapeArray:
		if a.Items.IsSchema() != b.Items.IsSchema() {
			return false
		}
		if a.Items.IsSchema() {
			return same(a.Items.Schema, b.Items.Schema)
		}
		return a.Items.Kind == b.Items.Kind
	}
	return true
}

func constraintsEqual(a, b Constraints) bool {
	if len(a.Enum) != len(b.Enum) {
		return false
	}
	for i := range a.Enum {
		if !ValuesEqual(a.Enum[i], b.Enum[i]) {
			return false
		}
	}
	return rangeEqual(a.Range, b.Range) &&
		rangeEqual(a.ExclusiveRange, b.ExclusiveRange) &&
		boundsEqual(a.LengthRange, b.LengthRange) &&
		boundsEqual(a.ItemsRange, b.ItemsRange) &&
		boundsEqual(a.PropertiesRange, b.PropertiesRange) &&
		a.Regex == b.Regex &&
		ptrEqual(a.MultipleOf, b.MultipleOf) &&
		a.Format == b.Format
}

func rangeEqual(a, b *Range) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return ptrEqual(a.Min, b.Min) && ptrEqual(a.Max, b.Max)
}

func boundsEqual(a, b *Bounds) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() == b.IsZero()
	}
	return ptrEqual(a.Min, b.Min) && ptrEqual(a.Max, b.Max)
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ValuesEqual compares two dynamic values, treating numbers of any Go type as
// equal when they have the same float64 value.
func ValuesEqual(a, b any) bool {
	fa, aok := AsFloat(a)
	fb, bok := AsFloat(b)
	if aok && bok {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

// AsFloat converts any Go number (including json.Number-like values) to
// float64.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case interface{ Float64() (float64, error) }:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// IsIntegral reports whether f has no fractional part and fits an int64.
func IsIntegral(f float64) bool {
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) &&
		f >= math.MinInt64 && f < math.MaxInt64
}
