// File: scopeconf/source.go
package scopeconf

// Well-known source names used in provenance reporting.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceCLI     = "cli"
)

// Source is a named provider of raw field values. Lookup must distinguish
// "absent" from "present with value" unambiguously: a present nil is a real
// value and does not fall through to lower-precedence sources.
type Source interface {
	// Name identifies the source in provenance and error messages.
	Name() string

	// Lookup returns the raw value for a field name and whether the source
	// supplies the field at all.
	Lookup(field string) (any, bool)
}

// MapSource is a Source backed by an in-memory map. Nested maps are
// flattened into dot-notation field names at construction.
type MapSource struct {
	name   string
	values map[string]any
}

// NewMapSource creates a named source from a (possibly nested) map.
func NewMapSource(name string, values map[string]any) *MapSource {
	return &MapSource{
		name:   name,
		values: flattenMap(values, ""),
	}
}

func (m *MapSource) Name() string { return m.name }

func (m *MapSource) Lookup(field string) (any, bool) {
	v, ok := m.values[field]
	return v, ok
}
