// File: scopeconf/struct.go
package scopeconf

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// FieldsFromStruct derives FieldSpecs from a struct's exported fields,
// using field values as defaults. The "toml" tag supplies the field name;
// tag options "required" and "locked" set the corresponding flags:
//
//	type Defaults struct {
//	    Region  string `toml:"region,locked"`
//	    APIKey  string `toml:"api_key,required"`
//	    Port    int    `toml:"port"`
//	    Skipped int    `toml:"-"`
//	}
//
// Nested structs recurse into dot-notation names. The prefix, if non-empty,
// is prepended to every name (e.g. "server.").
func FieldsFromStruct(prefix string, structWithDefaults any) ([]FieldSpec, error) {
	v := reflect.ValueOf(structWithDefaults)

	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("FieldsFromStruct requires a non-nil struct pointer or value")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FieldsFromStruct requires a struct or struct pointer, got %T", structWithDefaults)
	}

	var specs []FieldSpec
	if err := structFields(v, strings.TrimSuffix(prefix, "."), &specs); err != nil {
		return nil, err
	}
	return specs, nil
}

func structFields(v reflect.Value, prefix string, specs *[]FieldSpec) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("toml")
		if tag == "-" {
			continue
		}

		key := field.Name
		var required, locked bool
		if tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] != "" {
				key = parts[0]
			}
			for _, opt := range parts[1:] {
				switch opt {
				case "required":
					required = true
				case "locked":
					locked = true
				}
			}
		}

		name := key
		if prefix != "" {
			name = prefix + "." + key
		}

		// Nested structs recurse; time.Time stays a leaf value.
		if fieldValue.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := structFields(fieldValue, name, specs); err != nil {
				return err
			}
			continue
		}
		if fieldValue.Kind() == reflect.Ptr && fieldValue.Type().Elem().Kind() == reflect.Struct {
			if fieldValue.IsNil() {
				// Nil struct pointers carry no usable defaults
				continue
			}
			if err := structFields(fieldValue.Elem(), name, specs); err != nil {
				return err
			}
			continue
		}

		spec := FieldSpec{
			Name:     name,
			Kind:     kindOf(fieldValue.Interface()),
			Required: required,
			Locked:   locked,
		}
		// Required fields get no implicit default; a zero default would
		// make the required check unreachable.
		if !required {
			spec.Default = fieldValue.Interface()
		}

		*specs = append(*specs, spec)
	}

	return nil
}
