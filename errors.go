// File: scopeconf/errors.go
package scopeconf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the error kinds detected during composition and
// resolution. All detail-carrying error types below unwrap to one of these,
// so callers can branch with errors.Is.
var (
	// ErrTypeMismatch indicates a value incompatible with a field's declared kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMissingRequired indicates a required field with no value from any source or default.
	ErrMissingRequired = errors.New("missing required field")

	// ErrLockedField indicates a descendant scope redeclaring a field locked by an ancestor.
	ErrLockedField = errors.New("locked field violation")

	// ErrDuplicateField indicates two FieldSpecs sharing a name in one declaration list.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrScopeSealed indicates a declaration mutation on a scope already composed.
	ErrScopeSealed = errors.New("scope is sealed")

	// ErrConfigNotFound indicates a missing configuration file. It is not
	// fatal for Builder.Build, which proceeds with the remaining sources.
	ErrConfigNotFound = errors.New("config file not found")
)

// TypeMismatchError reports a value that could not be coerced to a field's
// declared kind.
type TypeMismatchError struct {
	Field string
	Kind  Kind
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %q: cannot coerce %v (%T) to %s", e.Field, e.Value, e.Value, e.Kind)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// MissingFieldError reports a required field that resolved to absent after
// consulting every source and the default.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("field %q is required and no source or default supplies a value", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingRequired }

// LockedFieldError reports a redeclaration of a locked field. It names both
// the scope that holds the lock and the scope that violated it.
type LockedFieldError struct {
	Field    string
	LockedBy string // scope that declared the field locked
	Scope    string // scope that attempted the redeclaration
}

func (e *LockedFieldError) Error() string {
	return fmt.Sprintf("field %q is locked by scope %q and cannot be redeclared by scope %q",
		e.Field, e.LockedBy, e.Scope)
}

func (e *LockedFieldError) Unwrap() error { return ErrLockedField }

// DuplicateFieldError reports two FieldSpecs sharing a name within a single
// declaration list. Scope is empty when the list does not belong to a scope
// (e.g. a tree node schema).
type DuplicateFieldError struct {
	Field string
	Scope string
}

func (e *DuplicateFieldError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "field %q declared more than once", e.Field)
	if e.Scope != "" {
		fmt.Fprintf(&b, " in scope %q", e.Scope)
	}
	return b.String()
}

func (e *DuplicateFieldError) Unwrap() error { return ErrDuplicateField }
