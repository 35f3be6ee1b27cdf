// File: scopeconf/field.go
package scopeconf

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Kind is the semantic type a resolved field value must satisfy.
type Kind int

const (
	// KindInvalid means the kind was not declared; it is inferred from the
	// default value during validation, falling back to KindString.
	KindInvalid Kind = iota
	KindString
	KindInt
	KindBool
	KindFloat
	KindDuration
	KindStringSlice
	// KindAny disables coercion; the raw value passes through unchanged.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	case KindDuration:
		return "duration"
	case KindStringSlice:
		return "string slice"
	case KindAny:
		return "any"
	default:
		return "invalid"
	}
}

// FieldSpec declares a single configuration or record field.
type FieldSpec struct {
	// Name is the unique identifier within the owning declaration list.
	// Dot-separated names are allowed; each segment must be a valid key.
	Name string

	// Kind is the declared type. Left as KindInvalid, it is inferred from
	// Default, falling back to KindString.
	Kind Kind

	// Default is the fallback value used when no source supplies one.
	Default any

	// Required makes resolution fail when no source and no default supplies
	// a value.
	Required bool

	// Locked prevents any descendant scope from redeclaring this field.
	Locked bool
}

// Normalize validates the spec and returns a copy with the kind inferred
// from the default when undeclared and the default coerced to the kind.
func (f FieldSpec) Normalize() (FieldSpec, error) {
	return f.normalized()
}

// normalized returns a copy with the kind inferred and the spec validated.
func (f FieldSpec) normalized() (FieldSpec, error) {
	if f.Name == "" {
		return f, fmt.Errorf("field name cannot be empty")
	}
	for _, segment := range splitPath(f.Name) {
		if !isValidKeySegment(segment) {
			return f, fmt.Errorf("invalid segment %q in field name %q", segment, f.Name)
		}
	}

	if f.Kind == KindInvalid {
		if f.Default != nil {
			f.Kind = kindOf(f.Default)
		} else {
			f.Kind = KindString
		}
	}

	if f.Default != nil {
		coerced, err := f.Coerce(f.Default)
		if err != nil {
			return f, fmt.Errorf("field %q has default %v (%T) inappropriate for kind %s: %w",
				f.Name, f.Default, f.Default, f.Kind, ErrTypeMismatch)
		}
		f.Default = coerced
	}

	return f, nil
}

// Coerce converts raw to the spec's declared kind. A nil raw value passes
// through: an explicit nil supplied by a source is a present value, distinct
// from absent. Failure yields a TypeMismatchError.
func (f FieldSpec) Coerce(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	var err error
	switch f.Kind {
	case KindAny:
		return raw, nil
	case KindString:
		var out string
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	case KindInt:
		var out int64
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	case KindBool:
		var out bool
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	case KindFloat:
		var out float64
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	case KindDuration:
		var out time.Duration
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	case KindStringSlice:
		var out []string
		if err = weakDecode(raw, &out); err == nil {
			return out, nil
		}
	}

	return nil, &TypeMismatchError{Field: f.Name, Kind: f.Kind, Value: raw}
}

// kindOf maps a Go value to the closest declared kind.
func kindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindString
	case time.Duration:
		return KindDuration
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case bool:
		return KindBool
	case float32, float64:
		return KindFloat
	case []string:
		return KindStringSlice
	default:
		return KindAny
	}
}

// weakDecode converts a single raw value into the typed target using the
// same weakly-typed rules and hooks used for struct scanning, so "45"
// becomes int64(45) and "5s" becomes a duration.
func weakDecode(raw, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	return decoder.Decode(raw)
}
