// File: scopeconf/resolver.go
package scopeconf

// Resolve determines the final typed value for spec from sources, ordered
// from highest to lowest precedence. The first source supplying the field
// wins; if none does, the spec's default is used. The raw value is coerced
// to the spec's declared kind. Resolve is a pure function of its inputs.
//
// An explicit nil supplied by a source is a present value: it resolves to
// nil instead of falling through to lower-precedence sources, and it
// satisfies Required.
func Resolve(spec FieldSpec, sources []Source) (any, error) {
	value, _, err := resolve(spec, sources)
	return value, err
}

// resolve is Resolve plus provenance: the name of the supplying source, or
// SourceDefault when the default was used, or "" when the field resolved to
// absent (nil, not required).
func resolve(spec FieldSpec, sources []Source) (any, string, error) {
	spec, err := spec.normalized()
	if err != nil {
		return nil, "", err
	}

	for _, src := range sources {
		raw, ok := src.Lookup(spec.Name)
		if !ok {
			continue
		}
		if raw == nil {
			return nil, src.Name(), nil
		}
		value, err := spec.Coerce(raw)
		if err != nil {
			return nil, "", err
		}
		return value, src.Name(), nil
	}

	if spec.Default != nil {
		// normalized already coerced the default
		return spec.Default, SourceDefault, nil
	}

	if spec.Required {
		return nil, "", &MissingFieldError{Field: spec.Name}
	}

	return nil, "", nil
}
