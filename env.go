// File: scopeconf/env.go
package scopeconf

import (
	"os"
	"strings"
)

// EnvTransformFunc converts a field name to an environment variable name.
type EnvTransformFunc func(field string) string

// EnvOptions configures an environment variable source.
type EnvOptions struct {
	// Prefix is prepended to transformed variable names.
	// Example: "MYAPP_" maps "server.port" to "MYAPP_SERVER_PORT".
	Prefix string

	// Transform customizes how field names map to environment variables.
	// If nil, the default transformation (dots to underscores, uppercase,
	// prefix) is used.
	Transform EnvTransformFunc

	// Whitelist limits which fields are checked (nil = all).
	Whitelist map[string]bool
}

// EnvSource supplies raw values from process environment variables.
// Values are returned as strings; the resolver coerces them.
type EnvSource struct {
	opts      EnvOptions
	transform EnvTransformFunc
}

// NewEnvSource creates an environment variable source.
func NewEnvSource(opts EnvOptions) *EnvSource {
	transform := opts.Transform
	if transform == nil {
		transform = defaultEnvTransform(opts.Prefix)
	}
	return &EnvSource{opts: opts, transform: transform}
}

func (e *EnvSource) Name() string { return SourceEnv }

func (e *EnvSource) Lookup(field string) (any, bool) {
	if e.opts.Whitelist != nil && !e.opts.Whitelist[field] {
		return nil, false
	}

	value, exists := os.LookupEnv(e.transform(field))
	if !exists {
		return nil, false
	}
	return value, true
}

// Discover returns a map of field name to environment variable name for
// every given field whose variable is currently set.
func (e *EnvSource) Discover(fields []string) map[string]string {
	discovered := make(map[string]string)
	for _, field := range fields {
		envVar := e.transform(field)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[field] = envVar
		}
	}
	return discovered
}

// defaultEnvTransform creates the default environment variable transformer.
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(field string) string {
		env := strings.ReplaceAll(field, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}
