// File: scopeconf/builder.go
package scopeconf

import (
	"errors"
	"fmt"
)

// ValidatorFunc validates a fully composed configuration. It receives the
// Resolved instance and returns an error if validation fails.
type ValidatorFunc func(r *Resolved) error

// Builder provides a fluent interface for declaring a scope and its sources
// and composing the result. Source precedence, highest first: explicit
// sources (WithSource, in call order), command-line arguments, environment
// variables, file(s), declared defaults.
type Builder struct {
	name       string
	parent     *Scope
	fields     []FieldSpec
	defaults   any
	prefix     string
	file       string
	files      []string
	fileOpts   FileOptions
	discovery  *FileDiscoveryOptions
	envOpts    EnvOptions
	useEnv     bool
	args       []string
	overrides  []Source
	validators []ValidatorFunc
	err        error
}

// NewBuilder creates a new configuration builder for a scope named "config".
func NewBuilder() *Builder {
	return &Builder{name: "config"}
}

// WithName sets the scope name used in lock and provenance reporting.
func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithParent links the built scope under a parent scope, inheriting its
// declarations, locks, and sources.
func (b *Builder) WithParent(parent *Scope) *Builder {
	b.parent = parent
	return b
}

// WithFields declares fields on the built scope.
func (b *Builder) WithFields(specs ...FieldSpec) *Builder {
	b.fields = append(b.fields, specs...)
	return b
}

// WithDefaults declares fields derived from a struct's tagged fields and
// values (see FieldsFromStruct).
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the name prefix for struct-derived fields.
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithFile sets the configuration file path.
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFiles sets several configuration files, deep-merged with later files
// overriding earlier ones.
func (b *Builder) WithFiles(paths ...string) *Builder {
	b.files = paths
	return b
}

// WithFileOptions sets format and size options for file loading.
func (b *Builder) WithFileOptions(opts FileOptions) *Builder {
	b.fileOpts = opts
	return b
}

// WithEnv enables the environment variable source with the given prefix.
func (b *Builder) WithEnv(prefix string) *Builder {
	b.useEnv = true
	b.envOpts.Prefix = prefix
	return b
}

// WithEnvTransform sets a custom environment variable transformer.
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.useEnv = true
	b.envOpts.Transform = fn
	return b
}

// WithEnvWhitelist limits which fields are checked for env vars.
func (b *Builder) WithEnvWhitelist(fields ...string) *Builder {
	b.useEnv = true
	if b.envOpts.Whitelist == nil {
		b.envOpts.Whitelist = make(map[string]bool)
	}
	for _, field := range fields {
		b.envOpts.Whitelist[field] = true
	}
	return b
}

// WithArgs sets the command-line arguments (e.g. os.Args[1:]).
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithSource adds an explicit override source. Explicit sources outrank all
// built-in sources and rank among themselves in call order.
func (b *Builder) WithSource(src Source) *Builder {
	b.overrides = append(b.overrides, src)
	return b
}

// WithValidator adds a validation function run after composition.
// Multiple validators execute in the order they were added.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build declares the scope, attaches sources in precedence order, and
// composes. A missing config file is not fatal: composition proceeds
// without the file source and Build returns the valid Resolved together
// with ErrConfigNotFound.
func (b *Builder) Build() (*Resolved, error) {
	if b.err != nil {
		return nil, b.err
	}

	scope := NewScope(b.name, b.parent)

	if err := scope.Declare(b.fields...); err != nil {
		return nil, err
	}
	if b.defaults != nil {
		specs, err := FieldsFromStruct(b.prefix, b.defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to derive fields from defaults: %w", err)
		}
		if err := scope.Declare(specs...); err != nil {
			return nil, err
		}
	}

	for _, src := range b.overrides {
		if err := scope.AddSource(src); err != nil {
			return nil, err
		}
	}

	if len(b.args) > 0 {
		cli, err := ParseArgs(b.args)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CLI args: %w", err)
		}
		if err := scope.AddSource(cli); err != nil {
			return nil, err
		}
	}

	if b.useEnv {
		if err := scope.AddSource(NewEnvSource(b.envOpts)); err != nil {
			return nil, err
		}
	}

	var notFound error
	if src, err := b.fileSource(); err != nil {
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, err // Fatal load error
		}
		notFound = err
	} else if src != nil {
		if err := scope.AddSource(src); err != nil {
			return nil, err
		}
	}

	res, err := Compose(scope)
	if err != nil {
		return nil, err
	}

	for _, validator := range b.validators {
		if err := validator(res); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// notFound is ErrConfigNotFound or nil
	return res, notFound
}

// fileSource resolves the file path (discovery first, then explicit paths)
// and loads it. Returns (nil, nil) when no file was requested.
func (b *Builder) fileSource() (Source, error) {
	if b.discovery != nil {
		path, found := Discover(*b.discovery, b.args)
		if !found {
			return nil, ErrConfigNotFound
		}
		return LoadFileWithOptions(path, b.fileOpts)
	}
	if len(b.files) > 0 {
		return LoadFiles(b.files...)
	}
	if b.file != "" {
		return LoadFileWithOptions(b.file, b.fileOpts)
	}
	return nil, nil
}

// MustBuild is like Build but panics on error. ErrConfigNotFound is not
// fatal; the configuration proceeds with the remaining sources.
func (b *Builder) MustBuild() *Resolved {
	res, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return res
}

// BuildAndScan builds and decodes the composed configuration into the
// provided target struct pointer.
func (b *Builder) BuildAndScan(target any) error {
	res, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if scanErr := res.Scan(b.prefix, target); scanErr != nil {
		return fmt.Errorf("failed to scan composed config into target: %w", scanErr)
	}

	// ErrConfigNotFound or nil
	return err
}
