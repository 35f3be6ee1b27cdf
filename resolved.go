// File: scopeconf/resolved.go
package scopeconf

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
)

// Provenance records where a field's final value and spec came from.
type Provenance struct {
	// Scope is the name of the scope owning the field's final spec.
	Scope string

	// Source is the name of the source that supplied the value,
	// SourceDefault when the default was used, or "" when the field
	// resolved to absent.
	Source string

	// LockedBy names the scope that locked the field, if any.
	LockedBy string

	// Overrides lists the scopes whose declaration of this field was
	// replaced by a descendant, in chain order.
	Overrides []string
}

type resolvedField struct {
	spec  FieldSpec
	value any
	prov  Provenance
}

// Resolved is the immutable output of Compose: one final typed value per
// field plus provenance. It is safe to share read-only across goroutines.
type Resolved struct {
	fields map[string]resolvedField
	order  []string
}

// Fields returns all field names in first-declaration order.
func (r *Resolved) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Has reports whether the field name was declared anywhere in the chain.
func (r *Resolved) Has(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Get returns the resolved value for a field name. The second return value
// indicates whether the field was declared.
func (r *Resolved) Get(name string) (any, bool) {
	f, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	return f.value, true
}

// Spec returns the final FieldSpec governing a field.
func (r *Resolved) Spec(name string) (FieldSpec, bool) {
	f, ok := r.fields[name]
	return f.spec, ok
}

// Provenance returns the origin of a field's final value and spec.
func (r *Resolved) Provenance(name string) (Provenance, bool) {
	f, ok := r.fields[name]
	return f.prov, ok
}

// String retrieves a string value, converting from common types when the
// stored value isn't already a string. A nil value yields "".
func (r *Resolved) String(name string) (string, error) {
	val, found := r.Get(name)
	if !found {
		return "", fmt.Errorf("field not declared: %s", name)
	}
	if val == nil {
		return "", nil
	}

	if strVal, ok := val.(string); ok {
		return strVal, nil
	}

	switch v := val.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(val).Int(), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(val).Uint(), 10), nil
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot convert type %T to string for field %s", val, name)
	}
}

// Int64 retrieves an int64 value, converting from numeric types, parsable
// strings, and booleans.
func (r *Resolved) Int64(name string) (int64, error) {
	val, found := r.Get(name)
	if !found {
		return 0, fmt.Errorf("field not declared: %s", name)
	}
	if val == nil {
		return 0, fmt.Errorf("value for field %s is nil, cannot convert to int64", name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		maxInt64 := int64(^uint64(0) >> 1)
		if u > uint64(maxInt64) {
			return 0, fmt.Errorf("cannot convert unsigned integer %d to int64 for field %s: overflow", u, name)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return int64(v.Float()), nil
	case reflect.String:
		s := v.String()
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return i, nil
		} else {
			if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
				return int64(f), nil
			}
			return 0, fmt.Errorf("cannot convert string %q to int64 for field %s: %w", s, name, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("cannot convert type %T to int64 for field %s", val, name)
}

// Bool retrieves a boolean value, converting from numeric types (0 is
// false, non-zero true) and parsable strings.
func (r *Resolved) Bool(name string) (bool, error) {
	val, found := r.Get(name)
	if !found {
		return false, fmt.Errorf("field not declared: %s", name)
	}
	if val == nil {
		return false, fmt.Errorf("value for field %s is nil, cannot convert to bool", name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.String:
		s := v.String()
		if b, err := strconv.ParseBool(s); err == nil {
			return b, nil
		} else {
			return false, fmt.Errorf("cannot convert string %q to bool for field %s: %w", s, name, err)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, nil
	}

	return false, fmt.Errorf("cannot convert type %T to bool for field %s", val, name)
}

// Float64 retrieves a float64 value, converting from numeric types,
// parsable strings, and booleans.
func (r *Resolved) Float64(name string) (float64, error) {
	val, found := r.Get(name)
	if !found {
		return 0.0, fmt.Errorf("field not declared: %s", name)
	}
	if val == nil {
		return 0.0, fmt.Errorf("value for field %s is nil, cannot convert to float64", name)
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.String:
		s := v.String()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		} else {
			return 0.0, fmt.Errorf("cannot convert string %q to float64 for field %s: %w", s, name, err)
		}
	case reflect.Bool:
		if v.Bool() {
			return 1.0, nil
		}
		return 0.0, nil
	}

	return 0.0, fmt.Errorf("cannot convert type %T to float64 for field %s", val, name)
}

// Duration retrieves a time.Duration value, converting from integers
// (nanoseconds) and parsable strings ("5s").
func (r *Resolved) Duration(name string) (time.Duration, error) {
	val, found := r.Get(name)
	if !found {
		return 0, fmt.Errorf("field not declared: %s", name)
	}
	if val == nil {
		return 0, fmt.Errorf("value for field %s is nil, cannot convert to duration", name)
	}

	switch v := val.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to duration for field %s: %w", v, name, err)
		}
		return d, nil
	}

	i, err := r.Int64(name)
	if err != nil {
		return 0, fmt.Errorf("cannot convert type %T to duration for field %s", val, name)
	}
	return time.Duration(i), nil
}

// AsMap returns the resolved configuration as a nested map, with
// dot-notation field names expanded into sub-maps. The result is a copy.
func (r *Resolved) AsMap() map[string]any {
	nested := make(map[string]any)
	for _, name := range r.order {
		setNestedValue(nested, name, r.fields[name].value)
	}
	return nested
}

// Scan decodes the resolved values under basePath into the target struct or
// map. The target must be a non-nil pointer; fields map via the "toml" tag.
func (r *Resolved) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	sectionData := navigateToPath(r.AsMap(), basePath)

	sectionMap, ok := sectionData.(map[string]any)
	if !ok {
		if sectionData == nil {
			sectionMap = make(map[string]any)
		} else {
			return fmt.Errorf("field path %q does not refer to a scannable section (map), but to type %T", basePath, sectionData)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("failed to scan section %q into %T: %w", basePath, target, err)
	}

	return nil
}

// Dump writes the resolved configuration to w in TOML format. Absent (nil)
// values are skipped; TOML has no null.
func (r *Resolved) Dump(w io.Writer) error {
	nested := make(map[string]any)
	for _, name := range r.order {
		if value := r.fields[name].value; value != nil {
			setNestedValue(nested, name, value)
		}
	}

	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(nested); err != nil {
		return fmt.Errorf("failed to marshal resolved config to TOML: %w", err)
	}
	return nil
}
