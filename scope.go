// File: scopeconf/scope.go
package scopeconf

import "fmt"

// Scope is a declaring unit in a configuration chain. It contributes
// FieldSpecs and sources, and optionally references a parent scope,
// establishing the ancestor chain walked by Compose.
//
// A scope accepts declarations until the chain it belongs to has been
// successfully composed; after that it is sealed and further declaration
// mutations are rejected with ErrScopeSealed.
type Scope struct {
	name    string
	parent  *Scope
	fields  []FieldSpec
	names   map[string]bool
	sources []Source
	sealed  bool
}

// NewScope creates a declaration scope. parent may be nil for a root scope.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{
		name:   name,
		parent: parent,
		names:  make(map[string]bool),
	}
}

// Name returns the scope's identifier, used in lock violation and
// provenance reporting.
func (s *Scope) Name() string { return s.name }

// Parent returns the parent scope, or nil for a root.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare adds field declarations to the scope in order. Each spec is
// validated immediately; a name already declared in this same scope is a
// DuplicateFieldError. Redeclaring an ancestor's field is legal here and
// checked against locks during Compose.
func (s *Scope) Declare(specs ...FieldSpec) error {
	if s.sealed {
		return fmt.Errorf("%w: %q", ErrScopeSealed, s.name)
	}

	for _, spec := range specs {
		normalized, err := spec.normalized()
		if err != nil {
			return err
		}
		if s.names[normalized.Name] {
			return &DuplicateFieldError{Field: normalized.Name, Scope: s.name}
		}
		s.names[normalized.Name] = true
		s.fields = append(s.fields, normalized)
	}

	return nil
}

// AddSource appends sources to the scope's source list, highest precedence
// first within the scope.
func (s *Scope) AddSource(sources ...Source) error {
	if s.sealed {
		return fmt.Errorf("%w: %q", ErrScopeSealed, s.name)
	}
	s.sources = append(s.sources, sources...)
	return nil
}

// Fields returns a copy of the scope's own declarations in order.
func (s *Scope) Fields() []FieldSpec {
	out := make([]FieldSpec, len(s.fields))
	copy(out, s.fields)
	return out
}

// Sealed reports whether the scope has been locked for read by a
// successful Compose.
func (s *Scope) Sealed() bool { return s.sealed }

// chain returns the ancestor chain from root to this scope.
func (s *Scope) chain() []*Scope {
	var reversed []*Scope
	for sc := s; sc != nil; sc = sc.parent {
		reversed = append(reversed, sc)
	}

	chain := make([]*Scope, len(reversed))
	for i, sc := range reversed {
		chain[len(reversed)-1-i] = sc
	}
	return chain
}

// sourceChain returns the scope's own sources followed by each ancestor's,
// nearest ancestor first. Resolution consults the owning scope's sources
// before falling back to ancestors.
func (s *Scope) sourceChain() []Source {
	var sources []Source
	for sc := s; sc != nil; sc = sc.parent {
		sources = append(sources, sc.sources...)
	}
	return sources
}
