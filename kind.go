package belso

import (
	"strings"

	"fortio.org/safecast"
)

// Kind is the primitive kind of a field value.
type Kind int

const (
	KindString  Kind = iota // UTF-8 text.
	KindInteger             // Whole numbers.
	KindFloat               // Floating point numbers.
	KindBoolean             // true/false.
	KindArray               // Array of unknown elements.
	KindObject              // Object of unknown properties.
	KindAny                 // Anything, including null.
)

var kindNames = [...]string{
	KindString:  "string",
	KindInteger: "integer",
	KindFloat:   "float",
	KindBoolean: "boolean",
	KindArray:   "array",
	KindObject:  "object",
	KindAny:     "any",
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindString, KindInteger, KindFloat, KindBoolean, KindArray, KindObject, KindAny}
}

// String returns the canonical kind name (for example "boolean").
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return "invalid"
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool { return k >= KindString && k <= KindAny }

// IsNumeric reports whether k is Integer or Float.
func (k Kind) IsNumeric() bool { return k == KindInteger || k == KindFloat }

// ParseKind resolves a kind name. It accepts the canonical names, the short
// names used by the text codecs ("str", "int", "bool", "list", "dict") and the
// JSON Schema names ("number", "array", "object").
func ParseKind(name string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string", "str", "text":
		return KindString, true
	case "integer", "int":
		return KindInteger, true
	case "float", "number", "double":
		return KindFloat, true
	case "boolean", "bool":
		return KindBoolean, true
	case "array", "list":
		return KindArray, true
	case "object", "dict", "map":
		return KindObject, true
	case "any":
		return KindAny, true
	}
	return KindString, false
}

// Normalize converts a decoded value to the natural Go type of k: integral
// numbers become int for KindInteger and any number becomes float64 for
// KindFloat. Other values are returned unchanged.
func (k Kind) Normalize(v any) any {
	f, ok := AsFloat(v)
	if !ok {
		return v
	}
	switch k {
	case KindInteger:
		if n, err := safecast.Convert[int](f); err == nil {
			return n
		}
	case KindFloat:
		return f
	}
	return v
}
