// Package schema defines the field-dictionary boundary between dataset file
// loaders and the element constructors, together with the two error kinds
// every constructor reports: ValidationError for a field that fails its
// type/range/membership check, and MissingFieldError for a required field
// absent from a supplied mapping.
package schema

import (
	"fmt"
	"sort"
)

// Fields is the mapping a loader supplies to a Deserialize function and a
// Serialize method returns. Keys are declared attribute names; values are
// already-typed or primitively-typed data.
type Fields map[string]any

// ValidationError reports a field whose value failed a type, range, or
// membership check during construction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for the named field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MissingFieldError reports a required field key absent from a mapping
// passed to a Deserialize function.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// Require ensures every name in fieldNames is present in f. Extra keys are
// ignored; absence of any declared key fails with a MissingFieldError.
func (f Fields) Require(fieldNames ...string) error {
	for _, name := range fieldNames {
		if _, ok := f[name]; !ok {
			return &MissingFieldError{Field: name}
		}
	}
	return nil
}

// Names returns the keys of the mapping in sorted order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Int extracts a required int64 field. Untyped ints are accepted since
// hand-built mappings commonly carry them.
func (f Fields) Int(name string) (int64, error) {
	v, ok := f[name]
	if !ok {
		return 0, &MissingFieldError{Field: name}
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	default:
		return 0, Invalid(name, "want integer, got %T", v)
	}
}

// NonNegInt extracts a required non-negative int64 field.
func (f Fields) NonNegInt(name string) (int64, error) {
	n, err := f.Int(name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, Invalid(name, "must be non-negative, got %d", n)
	}
	return n, nil
}

// Float extracts a required float64 field.
func (f Fields) Float(name string) (float64, error) {
	v, ok := f[name]
	if !ok {
		return 0, &MissingFieldError{Field: name}
	}
	x, ok := v.(float64)
	if !ok {
		return 0, Invalid(name, "want float64, got %T", v)
	}
	return x, nil
}

// OptionalFloat extracts a declared-but-nilable *float64 field. The key
// must exist; a nil value means "absent".
func (f Fields) OptionalFloat(name string) (*float64, error) {
	v, ok := f[name]
	if !ok {
		return nil, &MissingFieldError{Field: name}
	}
	if v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case *float64:
		return x, nil
	case float64:
		return &x, nil
	default:
		return nil, Invalid(name, "want float64 or nil, got %T", v)
	}
}

// String extracts a required string field.
func (f Fields) String(name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", &MissingFieldError{Field: name}
	}
	s, ok := v.(string)
	if !ok {
		return "", Invalid(name, "want string, got %T", v)
	}
	return s, nil
}

// Value extracts a required field of an arbitrary concrete type.
func Value[T any](f Fields, name string) (T, error) {
	var zero T
	v, ok := f[name]
	if !ok {
		return zero, &MissingFieldError{Field: name}
	}
	t, ok := v.(T)
	if !ok {
		return zero, Invalid(name, "want %T, got %T", zero, v)
	}
	return t, nil
}

// NilableValue extracts a declared field whose value may be nil. The key
// must exist; a nil value yields the zero T and ok=false.
func NilableValue[T any](f Fields, name string) (T, bool, error) {
	var zero T
	v, ok := f[name]
	if !ok {
		return zero, false, &MissingFieldError{Field: name}
	}
	if v == nil {
		return zero, false, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, false, Invalid(name, "want %T or nil, got %T", zero, v)
	}
	return t, true, nil
}

// IDList extracts a required []int64 field, rejecting negative entries.
func (f Fields) IDList(name string) ([]int64, error) {
	ids, err := Value[[]int64](f, name)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if id < 0 {
			return nil, Invalid(name, "id must be non-negative, got %d", id)
		}
	}
	return ids, nil
}
