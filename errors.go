package belso

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/reoring/belso/i18n"
)

// Issue codes.
const (
	CodeInvalidType        = "invalid_type"
	CodeRequired           = "required"
	CodeParseError         = "parse_error"
	CodeTooSmall           = "too_small"
	CodeTooBig             = "too_big"
	CodeDuplicateField     = "duplicate_field"
	CodeUnsupportedDialect = "unsupported_dialect"
)

// Issue is a single validation entry.
type Issue struct {
	Path    string // JSON Pointer (for example: /rooms/2/lights).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
	// Params carries structured parameters (e.g. {"expected":"float","actual":"string"})
	// for i18n and logging.
	Params map[string]any
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error. A ValidationError anywhere in the
// chain yields a single-entry Issues.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return Issues{ve.Issue()}, true
	}
	return nil, false
}

// ValidationError is returned by Validate. Issue reports the failing location
// as a JSON Pointer rooted at the validated object.
type ValidationError interface {
	error
	Issue() Issue
}

var (
	_ ValidationError = (*MissingFieldError)(nil)
	_ ValidationError = (*TypeMismatchError)(nil)
	_ ValidationError = (*MalformedInputError)(nil)
	_ ValidationError = (*ItemCountError)(nil)
	_ ValidationError = (*ItemError)(nil)
	_ ValidationError = (*NestedError)(nil)
)

// MissingFieldError reports a required field absent from the data.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

func (e *MissingFieldError) Issue() Issue {
	return Issue{
		Path:    pointer(e.Field),
		Code:    CodeRequired,
		Message: i18n.T(CodeRequired, map[string]string{"field": e.Field}),
		Params:  map[string]any{"field": e.Field},
	}
}

// TypeMismatchError reports a present field whose value has the wrong kind.
// Actual is the runtime kind name ("string", "integer", "float", "boolean",
// "array", "object" or "null").
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Issue() Issue {
	return Issue{
		Path:    pointer(e.Field),
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, map[string]string{"expected": e.Expected, "actual": e.Actual}),
		Params:  map[string]any{"expected": e.Expected, "actual": e.Actual},
	}
}

// MalformedInputError reports textual input that is not a JSON object.
type MalformedInputError struct {
	Cause error
}

func (e *MalformedInputError) Error() string {
	if e.Cause == nil {
		return "malformed input"
	}
	return "malformed input: " + e.Cause.Error()
}

func (e *MalformedInputError) Unwrap() error { return e.Cause }

func (e *MalformedInputError) Issue() Issue {
	return Issue{Path: "", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: e.Cause}
}

// ItemCountError reports an array whose length is outside its items range.
type ItemCountError struct {
	Field string
	Count int
	Range *Bounds
}

func (e *ItemCountError) Error() string {
	return fmt.Sprintf("field %s: %d items, want %s", e.Field, e.Count, e.Range)
}

func (e *ItemCountError) Issue() Issue {
	code := CodeTooBig
	if e.Range != nil && e.Range.Min != nil && e.Count < *e.Range.Min {
		code = CodeTooSmall
	}
	params := map[string]any{"count": e.Count}
	if e.Range != nil && e.Range.Min != nil {
		params["min"] = *e.Range.Min
	}
	if e.Range != nil && e.Range.Max != nil {
		params["max"] = *e.Range.Max
	}
	return Issue{Path: pointer(e.Field), Code: code, Message: i18n.T(code, nil), Params: params}
}

// ItemError wraps the failure of one array element.
type ItemError struct {
	Field string
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	if e.elementMismatch() {
		return e.Err.Error()
	}
	return fmt.Sprintf("field %s[%d]: %v", e.Field, e.Index, e.Err)
}

// elementMismatch reports whether the element itself has the wrong kind.
func (e *ItemError) elementMismatch() bool {
	tm, ok := e.Err.(*TypeMismatchError)
	return ok && tm.Field == elementName(e.Field, e.Index)
}

func (e *ItemError) Unwrap() error { return e.Err }

func (e *ItemError) Issue() Issue {
	base := pointer(e.Field, strconv.Itoa(e.Index))
	if e.elementMismatch() {
		it := e.Err.(*TypeMismatchError).Issue()
		it.Path = base
		return it
	}
	return rebase(e.Err, base)
}

func elementName(field string, i int) string { return fmt.Sprintf("%s[%d]", field, i) }

// NestedError wraps the failure of a nested object.
type NestedError struct {
	Field string
	Err   error
}

func (e *NestedError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *NestedError) Unwrap() error { return e.Err }

func (e *NestedError) Issue() Issue {
	return rebase(e.Err, pointer(e.Field))
}

// DuplicateFieldError is returned by NewSchema when two fields share a name.
type DuplicateFieldError struct {
	Schema string
	Field  string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("schema %s: duplicate field %q", e.Schema, e.Field)
}

func (e *DuplicateFieldError) Issue() Issue {
	return Issue{
		Path:    pointer(e.Field),
		Code:    CodeDuplicateField,
		Message: i18n.T(CodeDuplicateField, map[string]string{"field": e.Field}),
	}
}

// rebase prefixes the path of the wrapped issue with base.
func rebase(err error, base string) Issue {
	var ve ValidationError
	if !errors.As(err, &ve) {
		return Issue{Path: base, Code: CodeParseError, Message: err.Error(), Cause: err}
	}
	it := ve.Issue()
	if it.Path == "" || it.Path == "/" {
		it.Path = base
	} else {
		it.Path = base + it.Path
	}
	return it
}

// pointer builds a JSON Pointer from raw segments, escaping "~" and "/".
func pointer(segs ...string) string {
	b := &strings.Builder{}
	for _, s := range segs {
		b.WriteByte('/')
		s = strings.ReplaceAll(s, "~", "~0")
		s = strings.ReplaceAll(s, "/", "~1")
		b.WriteString(s)
	}
	return b.String()
}
