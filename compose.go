// File: scopeconf/compose.go
package scopeconf

// Compose walks the scope's ancestor chain root to leaf, aggregates field
// declarations, enforces locks, resolves every field, and returns an
// immutable Resolved configuration.
//
// Aggregation: a field newly seen is recorded with its declaring scope as
// owner. A field already present from an ancestor is either rejected (the
// ancestor's spec was locked) or replaced by the descendant's spec entirely,
// with the override recorded for diagnostics.
//
// Resolution: each field is resolved against the source list of the scope
// that owns its final spec, falling back to ancestor sources, nearest first.
//
// Composition is atomic: if any field fails, no Resolved is returned. On
// success every scope in the chain is sealed against further declarations.
func Compose(scope *Scope) (*Resolved, error) {
	chain := scope.chain()

	type entry struct {
		spec      FieldSpec
		owner     *Scope
		lockedBy  *Scope
		overrides []string
	}

	table := make(map[string]*entry)
	var order []string

	for _, sc := range chain {
		for _, spec := range sc.fields {
			existing, seen := table[spec.Name]
			if !seen {
				e := &entry{spec: spec, owner: sc}
				if spec.Locked {
					e.lockedBy = sc
				}
				table[spec.Name] = e
				order = append(order, spec.Name)
				continue
			}

			if existing.lockedBy != nil {
				return nil, &LockedFieldError{
					Field:    spec.Name,
					LockedBy: existing.lockedBy.name,
					Scope:    sc.name,
				}
			}

			existing.overrides = append(existing.overrides, existing.owner.name)
			existing.spec = spec
			existing.owner = sc
			if spec.Locked {
				existing.lockedBy = sc
			}
		}
	}

	fields := make(map[string]resolvedField, len(order))
	for _, name := range order {
		e := table[name]

		value, sourceName, err := resolve(e.spec, e.owner.sourceChain())
		if err != nil {
			return nil, err
		}

		prov := Provenance{
			Scope:     e.owner.name,
			Source:    sourceName,
			Overrides: e.overrides,
		}
		if e.lockedBy != nil {
			prov.LockedBy = e.lockedBy.name
		}

		fields[name] = resolvedField{spec: e.spec, value: value, prov: prov}
	}

	for _, sc := range chain {
		sc.sealed = true
	}

	return &Resolved{fields: fields, order: order}, nil
}
