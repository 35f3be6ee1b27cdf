// File: scopeconf/doc.go

// Package scopeconf assembles strongly-typed configuration from ordered
// sources (explicit overrides, command-line arguments, environment
// variables, config files, defaults) declared across a chain of scopes.
//
// A Scope is a declaring unit: it contributes FieldSpecs and sources, and
// may reference a parent scope. Compose walks the chain root to leaf,
// aggregates declarations, enforces field locks, resolves one final typed
// value per field, and returns an immutable Resolved configuration.
//
// Quick Start:
//
//	type Defaults struct {
//	    Host    string        `toml:"host"`
//	    Port    int           `toml:"port"`
//	    Timeout time.Duration `toml:"timeout"`
//	}
//
//	res, err := scopeconf.NewBuilder().
//	    WithDefaults(&Defaults{Host: "localhost", Port: 8080, Timeout: 30 * time.Second}).
//	    WithEnv("MYAPP_").
//	    WithFile("config.toml").
//	    Build()
//	if err != nil && !errors.Is(err, scopeconf.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//
//	host, _ := res.String("host")
//	port, _ := res.Int64("port")
//
// Scope chains and locks:
//
//	root := scopeconf.NewScope("base", nil)
//	root.Declare(scopeconf.FieldSpec{Name: "region", Default: "us-west", Locked: true})
//
//	svc := scopeconf.NewScope("service", root)
//	svc.Declare(scopeconf.FieldSpec{Name: "region", Default: "us-east"})
//
//	_, err := scopeconf.Compose(svc) // fails: LockedFieldError naming "base" and "service"
//
// Default precedence (highest to lowest):
//  1. Explicit override sources (WithSource)
//  2. Command-line arguments (--server.port=9090)
//  3. Environment variables (MYAPP_SERVER_PORT=9090)
//  4. Configuration file (config.toml)
//  5. Declared default values
//
// Composition is deterministic: the same chain and sources always yield the
// same Resolved configuration or the same first error. A Resolved value is
// immutable once composed and safe to share across goroutines without
// synchronization.
//
// The companion package scopeconf/tree builds fixed-schema record types with
// parent/child navigation from the same FieldSpec primitive.
package scopeconf
