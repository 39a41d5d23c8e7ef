package belso

import "fmt"

// Range is a numeric interval. A nil bound leaves that side open.
type Range struct {
	Min *float64
	Max *float64
}

// Bounds is a count interval (lengths, item and property counts). A nil bound
// leaves that side open.
type Bounds struct {
	Min *int
	Max *int
}

// Between returns a closed Range.
func Between(lo, hi float64) *Range { return &Range{Min: &lo, Max: &hi} }

// AtLeast returns a Range open above.
func AtLeast(lo float64) *Range { return &Range{Min: &lo} }

// AtMost returns a Range open below.
func AtMost(hi float64) *Range { return &Range{Max: &hi} }

// Count returns closed Bounds.
func Count(lo, hi int) *Bounds { return &Bounds{Min: &lo, Max: &hi} }

// CountAtLeast returns Bounds open above.
func CountAtLeast(lo int) *Bounds { return &Bounds{Min: &lo} }

// CountAtMost returns Bounds open below.
func CountAtMost(hi int) *Bounds { return &Bounds{Max: &hi} }

// IsZero reports whether no bound is set.
func (r *Range) IsZero() bool { return r == nil || (r.Min == nil && r.Max == nil) }

// IsZero reports whether no bound is set.
func (b *Bounds) IsZero() bool { return b == nil || (b.Min == nil && b.Max == nil) }

// Contains reports whether n satisfies both bounds.
func (b *Bounds) Contains(n int) bool {
	if b == nil {
		return true
	}
	if b.Min != nil && n < *b.Min {
		return false
	}
	if b.Max != nil && n > *b.Max {
		return false
	}
	return true
}

func (r *Range) String() string {
	if r.IsZero() {
		return "[,]"
	}
	return fmt.Sprintf("[%s,%s]", optFloat(r.Min), optFloat(r.Max))
}

func (b *Bounds) String() string {
	if b.IsZero() {
		return "[,]"
	}
	return fmt.Sprintf("[%s,%s]", optInt(b.Min), optInt(b.Max))
}

func optFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

func optInt(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprint(*p)
}

// Facet names one member of the constraint vocabulary.
type Facet string

const (
	FacetEnum            Facet = "enum"
	FacetRange           Facet = "range"
	FacetExclusiveRange  Facet = "exclusive_range"
	FacetLengthRange     Facet = "length_range"
	FacetItemsRange      Facet = "items_range"
	FacetPropertiesRange Facet = "properties_range"
	FacetRegex           Facet = "regex"
	FacetMultipleOf      Facet = "multiple_of"
	FacetFormat          Facet = "format"
)

// Constraints are the validation facets attached to a field. Only the facets
// valid for the field's effective kind survive schema construction.
type Constraints struct {
	Enum            []any
	Range           *Range
	ExclusiveRange  *Range
	LengthRange     *Bounds
	ItemsRange      *Bounds
	PropertiesRange *Bounds
	Regex           string
	MultipleOf      *float64
	Format          string
}

// facetsByKind mirrors the closed compatibility table: every kind accepts enum,
// the rest depends on the kind.
var facetsByKind = map[Kind][]Facet{
	KindString:  {FacetEnum, FacetLengthRange, FacetRegex, FacetFormat},
	KindInteger: {FacetEnum, FacetRange, FacetExclusiveRange, FacetMultipleOf},
	KindFloat:   {FacetEnum, FacetRange, FacetExclusiveRange, FacetMultipleOf},
	KindBoolean: {FacetEnum},
	KindArray:   {FacetEnum, FacetItemsRange},
	KindObject:  {FacetEnum, FacetPropertiesRange},
	KindAny:     {FacetEnum},
}

// Supports reports whether facet f may be attached to a field of kind k.
func Supports(k Kind, f Facet) bool {
	allowed, ok := facetsByKind[k]
	if !ok {
		allowed = facetsByKind[KindAny]
	}
	for _, a := range allowed {
		if a == f {
			return true
		}
	}
	return false
}

// Facets lists the facets that are set on c, in vocabulary order.
func (c Constraints) Facets() []Facet {
	var out []Facet
	if len(c.Enum) > 0 {
		out = append(out, FacetEnum)
	}
	if !c.Range.IsZero() {
		out = append(out, FacetRange)
	}
	if !c.ExclusiveRange.IsZero() {
		out = append(out, FacetExclusiveRange)
	}
	if !c.LengthRange.IsZero() {
		out = append(out, FacetLengthRange)
	}
	if !c.ItemsRange.IsZero() {
		out = append(out, FacetItemsRange)
	}
	if !c.PropertiesRange.IsZero() {
		out = append(out, FacetPropertiesRange)
	}
	if c.Regex != "" {
		out = append(out, FacetRegex)
	}
	if c.MultipleOf != nil {
		out = append(out, FacetMultipleOf)
	}
	if c.Format != "" {
		out = append(out, FacetFormat)
	}
	return out
}

// IsZero reports whether no facet is set.
func (c Constraints) IsZero() bool { return len(c.Facets()) == 0 }

// Without returns a copy of c with facet f cleared.
func (c Constraints) Without(f Facet) Constraints {
	switch f {
	case FacetEnum:
		c.Enum = nil
	case FacetRange:
		c.Range = nil
	case FacetExclusiveRange:
		c.ExclusiveRange = nil
	case FacetLengthRange:
		c.LengthRange = nil
	case FacetItemsRange:
		c.ItemsRange = nil
	case FacetPropertiesRange:
		c.PropertiesRange = nil
	case FacetRegex:
		c.Regex = ""
	case FacetMultipleOf:
		c.MultipleOf = nil
	case FacetFormat:
		c.Format = ""
	}
	return c
}

// FilterFor drops every facet that kind k does not support and returns the
// names of the dropped facets.
func (c Constraints) FilterFor(k Kind) (Constraints, []Facet) {
	var dropped []Facet
	for _, f := range c.Facets() {
		if !Supports(k, f) {
			c = c.Without(f)
			dropped = append(dropped, f)
		}
	}
	return c, dropped
}
