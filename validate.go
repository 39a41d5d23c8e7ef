package belso

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/reoring/belso/internal/jsonutil"
)

// Validate checks data against s and returns the validated object.
//
// data may be a map[string]any, JSON text (string, []byte) or any value that
// marshals to a JSON object. Integers supplied for float fields are rewritten
// in place to float64. The first failure is returned as a ValidationError.
func Validate(data any, s *Schema) (map[string]any, error) {
	if s == nil {
		return nil, errors.New("belso: validate against nil schema")
	}
	obj, err := asObject(data)
	if err != nil {
		Logger().Error("validation input is malformed", "schema", s.Name(), "err", err)
		return nil, &MalformedInputError{Cause: err}
	}
	Logger().Debug("validating", "schema", s.Name(), "required", len(s.RequiredNames()))
	if err := validateObject(obj, s); err != nil {
		var ve ValidationError
		if errors.As(err, &ve) {
			Logger().Debug("validation failed", "schema", s.Name(), "err", err)
		} else {
			Logger().Error("validation aborted", "schema", s.Name(), "err", err)
		}
		return nil, err
	}
	return obj, nil
}

func asObject(data any) (map[string]any, error) {
	switch t := data.(type) {
	case nil:
		return nil, errors.New("nil input")
	case map[string]any:
		return t, nil
	case string:
		return jsonutil.UnmarshalObject([]byte(t))
	case []byte:
		return jsonutil.UnmarshalObject(t)
	}
	if m, ok, err := toObject(data); ok {
		return m, err
	}
	return nil, fmt.Errorf("root is %s, want object", RuntimeKind(data))
}

// toObject converts maps and structs (or pointers to them) into a generic
// object. ok is false for any other value.
func toObject(v any) (m map[string]any, ok bool, err error) {
	if m, ok := v.(map[string]any); ok {
		return m, true, nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		m, err := jsonutil.ToMap(v)
		return m, true, err
	}
	return nil, false, nil
}

func validateObject(obj map[string]any, s *Schema) error {
	for _, name := range s.RequiredNames() {
		if _, ok := obj[name]; !ok {
			return &MissingFieldError{Field: name}
		}
	}
	for _, f := range s.fields {
		v, ok := obj[f.Name]
		if !ok {
			continue
		}
		if v == nil {
			if f.Required {
				return &TypeMismatchError{Field: f.Name, Expected: f.EffectiveKind().String(), Actual: "null"}
			}
			continue
		}
		nv, err := validateField(f, v)
		if err != nil {
			return err
		}
		obj[f.Name] = nv
	}
	return nil
}

func validateField(f Field, v any) (any, error) {
	switch f.Shape() {
	case ShapeNested:
		m, ok, err := toObject(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if !ok {
			return nil, &TypeMismatchError{Field: f.Name, Expected: KindObject.String(), Actual: RuntimeKind(v)}
		}
		if err := validateObject(m, f.Schema); err != nil {
			return nil, &NestedError{Field: f.Name, Err: err}
		}
		return m, nil
	case ShapeArray:
		return validateArray(f, v)
	}
	nv, ok, err := coerce(f.Kind, v)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", f.Name, err)
	}
	if !ok {
		return nil, &TypeMismatchError{Field: f.Name, Expected: f.Kind.String(), Actual: RuntimeKind(v)}
	}
	return nv, nil
}

func validateArray(f Field, v any) (any, error) {
	arr, ok := asArray(v)
	if !ok {
		return nil, &TypeMismatchError{Field: f.Name, Expected: KindArray.String(), Actual: RuntimeKind(v)}
	}
	if r := f.Constraints.ItemsRange; !r.Contains(len(arr)) {
		return nil, &ItemCountError{Field: f.Name, Count: len(arr), Range: r}
	}
	for i, item := range arr {
		if f.Items.IsSchema() {
			m, ok, err := toObject(item)
			if err != nil {
				return nil, fmt.Errorf("field %s[%d]: %w", f.Name, i, err)
			}
			if !ok {
				return nil, &ItemError{Field: f.Name, Index: i, Err: &TypeMismatchError{
					Field: elementName(f.Name, i), Expected: KindObject.String(), Actual: RuntimeKind(item),
				}}
			}
			if err := validateObject(m, f.Items.Schema); err != nil {
				return nil, &ItemError{Field: f.Name, Index: i, Err: err}
			}
			arr[i] = m
			continue
		}
		nv, ok, err := coerce(f.Items.Kind, item)
		if err != nil {
			return nil, fmt.Errorf("field %s[%d]: %w", f.Name, i, err)
		}
		if !ok {
			return nil, &ItemError{Field: f.Name, Index: i, Err: &TypeMismatchError{
				Field: elementName(f.Name, i), Expected: f.Items.Kind.String(), Actual: RuntimeKind(item),
			}}
		}
		arr[i] = nv
	}
	return arr, nil
}

// asArray accepts []any as is and copies other slice types into a []any.
func asArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// coerce checks v against a scalar kind. It returns the value to store,
// which differs from v only when an integer is widened to float64.
func coerce(k Kind, v any) (any, bool, error) {
	switch k {
	case KindAny:
		return v, true, nil
	case KindString:
		_, ok := v.(string)
		return v, ok, nil
	case KindBoolean:
		_, ok := v.(bool)
		return v, ok, nil
	case KindInteger:
		if isInteger(v) {
			return v, true, nil
		}
		return v, false, nil
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return v, true, nil
		case float32:
			return float64(n), true, nil
		}
		if f, ok := AsFloat(v); ok {
			return f, true, nil
		}
		return v, false, nil
	case KindArray:
		_, ok := asArray(v)
		return v, ok, nil
	case KindObject:
		m, ok, err := toObject(v)
		if !ok || err != nil {
			return v, ok, err
		}
		return m, true, nil
	}
	return nil, false, fmt.Errorf("unknown kind %d", int(k))
}

func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float64:
		return IsIntegral(n)
	case float32:
		return IsIntegral(float64(n))
	case interface{ Int64() (int64, error) }:
		_, err := n.Int64()
		return err == nil
	}
	return false
}

// RuntimeKind names the kind of a decoded value: "string", "boolean",
// "integer", "float", "array", "object" or "null". Other Go types are named
// after their type.
func RuntimeKind(v any) string {
	switch n := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case float32, float64:
		return "float"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case interface{ Int64() (int64, error) }:
		if _, err := n.Int64(); err == nil {
			return "integer"
		}
		return "float"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
