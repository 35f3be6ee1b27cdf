// File: scopeconf/builder_test.go
package scopeconf_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopeconf"
)

func TestBuilder(t *testing.T) {
	t.Run("BasicBuilder", func(t *testing.T) {
		type Config struct {
			Host string `toml:"host"`
			Port int    `toml:"port"`
		}

		res, err := scopeconf.NewBuilder().
			WithDefaults(&Config{Host: "localhost", Port: 8080}).
			Build()

		require.NoError(t, err)
		require.NotNil(t, res)

		host, _ := res.String("host")
		assert.Equal(t, "localhost", host)

		port, _ := res.Int64("port")
		assert.Equal(t, int64(8080), port)
	})

	t.Run("SourcePrecedence", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "test.toml")
		require.NoError(t, os.WriteFile(configFile, []byte("value = \"from-file\"\nonly-file = \"file\"\n"), 0644))

		os.Setenv("PRECTEST_VALUE", "from-env")
		os.Setenv("PRECTEST_ONLY-ENV", "env")
		t.Cleanup(func() {
			os.Unsetenv("PRECTEST_VALUE")
			os.Unsetenv("PRECTEST_ONLY-ENV")
		})

		res, err := scopeconf.NewBuilder().
			WithFields(
				scopeconf.FieldSpec{Name: "value", Default: "default"},
				scopeconf.FieldSpec{Name: "only-file", Default: "default"},
				scopeconf.FieldSpec{Name: "only-env", Default: "default"},
				scopeconf.FieldSpec{Name: "only-default", Default: "default"},
			).
			WithArgs([]string{"--value=from-cli"}).
			WithEnv("PRECTEST_").
			WithFile(configFile).
			Build()

		require.NoError(t, err)

		// CLI > env > file > default
		value, _ := res.String("value")
		assert.Equal(t, "from-cli", value)

		onlyEnv, _ := res.String("only-env")
		assert.Equal(t, "env", onlyEnv)

		onlyFile, _ := res.String("only-file")
		assert.Equal(t, "file", onlyFile)

		onlyDefault, _ := res.String("only-default")
		assert.Equal(t, "default", onlyDefault)
	})

	t.Run("ExplicitSourceOutranksAll", func(t *testing.T) {
		res, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "value", Default: "default"}).
			WithArgs([]string{"--value=from-cli"}).
			WithSource(scopeconf.NewMapSource("override", map[string]any{"value": "forced"})).
			Build()

		require.NoError(t, err)

		value, _ := res.String("value")
		assert.Equal(t, "forced", value)

		prov, _ := res.Provenance("value")
		assert.Equal(t, "override", prov.Source)
	})

	t.Run("MissingFileNotFatal", func(t *testing.T) {
		res, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "host", Default: "localhost"}).
			WithFile("/nonexistent/config.toml").
			Build()

		require.ErrorIs(t, err, scopeconf.ErrConfigNotFound)
		require.NotNil(t, res)

		host, _ := res.String("host")
		assert.Equal(t, "localhost", host)
	})

	t.Run("RequiredAndLockedTags", func(t *testing.T) {
		type Config struct {
			Region string `toml:"region,locked"`
			APIKey string `toml:"api_key,required"`
		}

		// Missing required field fails composition as a whole
		_, err := scopeconf.NewBuilder().
			WithDefaults(&Config{Region: "us-west"}).
			Build()
		assert.ErrorIs(t, err, scopeconf.ErrMissingRequired)

		// Supplied by a source, it succeeds and the lock is recorded
		res, err := scopeconf.NewBuilder().
			WithDefaults(&Config{Region: "us-west"}).
			WithSource(scopeconf.NewMapSource("secrets", map[string]any{"api_key": "s3cr3t"})).
			Build()
		require.NoError(t, err)

		prov, _ := res.Provenance("region")
		assert.Equal(t, "config", prov.LockedBy)
	})

	t.Run("ParentScopeLockEnforced", func(t *testing.T) {
		base := scopeconf.NewScope("base", nil)
		require.NoError(t, base.Declare(
			scopeconf.FieldSpec{Name: "region", Default: "us-west", Locked: true},
		))

		_, err := scopeconf.NewBuilder().
			WithName("service").
			WithParent(base).
			WithFields(scopeconf.FieldSpec{Name: "region", Default: "us-east"}).
			Build()

		require.Error(t, err)
		var locked *scopeconf.LockedFieldError
		require.ErrorAs(t, err, &locked)
		assert.Equal(t, "base", locked.LockedBy)
		assert.Equal(t, "service", locked.Scope)
	})

	t.Run("BuilderWithValidator", func(t *testing.T) {
		validatorCalled := false
		validator := func(res *scopeconf.Resolved) error {
			validatorCalled = true
			port, err := res.Int64("port")
			if err != nil {
				return err
			}
			if port < 1024 {
				return fmt.Errorf("port %d is below 1024", port)
			}
			return nil
		}

		res, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "port", Default: 8080}).
			WithValidator(validator).
			Build()
		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.True(t, validatorCalled)

		validatorCalled = false
		res2, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "port", Default: 80}).
			WithValidator(validator).
			Build()
		assert.Nil(t, res2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
		assert.True(t, validatorCalled)
	})

	t.Run("MustBuildPanic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			res := scopeconf.NewBuilder().
				WithFields(scopeconf.FieldSpec{Name: "port", Default: 8080}).
				MustBuild()
			assert.NotNil(t, res)
		})

		assert.Panics(t, func() {
			scopeconf.NewBuilder().
				WithFields(scopeconf.FieldSpec{Name: "key", Required: true}).
				MustBuild()
		})

		// ErrConfigNotFound is not fatal for MustBuild
		assert.NotPanics(t, func() {
			scopeconf.NewBuilder().
				WithFields(scopeconf.FieldSpec{Name: "port", Default: 8080}).
				WithFile("/nonexistent/config.toml").
				MustBuild()
		})
	})

	t.Run("BuildAndScan", func(t *testing.T) {
		type Config struct {
			Server struct {
				Host string `toml:"host"`
				Port int    `toml:"port"`
			} `toml:"server"`
			Timeout time.Duration `toml:"timeout"`
		}

		defaults := &Config{Timeout: 30 * time.Second}
		defaults.Server.Host = "localhost"
		defaults.Server.Port = 5432

		var target Config
		err := scopeconf.NewBuilder().
			WithDefaults(defaults).
			WithArgs([]string{"--server.port=9090", "--timeout=45s"}).
			BuildAndScan(&target)

		require.NoError(t, err)
		assert.Equal(t, "localhost", target.Server.Host)
		assert.Equal(t, 9090, target.Server.Port)
		assert.Equal(t, 45*time.Second, target.Timeout)
	})

	t.Run("FileDiscoveryWithCLIFlag", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "custom.toml")
		require.NoError(t, os.WriteFile(configFile, []byte("test = \"value\"\n"), 0644))

		opts := scopeconf.DefaultDiscoveryOptions("myapp")

		res, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "test", Default: "default"}).
			WithArgs([]string{"--config", configFile}).
			WithFileDiscovery(opts).
			Build()

		require.NoError(t, err)
		val, _ := res.String("test")
		assert.Equal(t, "value", val)
	})

	t.Run("FileDiscoveryWithEnvVar", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "env.toml")
		require.NoError(t, os.WriteFile(configFile, []byte("test = \"envvalue\"\n"), 0644))

		os.Setenv("MYAPP_CONFIG", configFile)
		t.Cleanup(func() { os.Unsetenv("MYAPP_CONFIG") })

		res, err := scopeconf.NewBuilder().
			WithFields(scopeconf.FieldSpec{Name: "test", Default: "default"}).
			WithFileDiscovery(scopeconf.DefaultDiscoveryOptions("myapp")).
			Build()

		require.NoError(t, err)
		val, _ := res.String("test")
		assert.Equal(t, "envvalue", val)
	})
}

func TestFieldsFromStruct(t *testing.T) {
	t.Run("NestedStructs", func(t *testing.T) {
		type Config struct {
			Database struct {
				Host string `toml:"host"`
				Port int    `toml:"port"`
			} `toml:"db"`
			Cache struct {
				TTL time.Duration `toml:"ttl"`
			} `toml:"cache"`
			Debug bool `toml:"debug"`
		}

		cfg := &Config{}
		cfg.Database.Host = "localhost"
		cfg.Database.Port = 5432
		cfg.Cache.TTL = 5 * time.Minute

		specs, err := scopeconf.FieldsFromStruct("", cfg)
		require.NoError(t, err)

		byName := make(map[string]scopeconf.FieldSpec)
		for _, s := range specs {
			byName[s.Name] = s
		}

		require.Contains(t, byName, "db.host")
		require.Contains(t, byName, "db.port")
		require.Contains(t, byName, "cache.ttl")
		require.Contains(t, byName, "debug")

		assert.Equal(t, scopeconf.KindInt, byName["db.port"].Kind)
		assert.Equal(t, scopeconf.KindDuration, byName["cache.ttl"].Kind)
		assert.Equal(t, scopeconf.KindBool, byName["debug"].Kind)
		assert.Equal(t, 5432, byName["db.port"].Default)
	})

	t.Run("PrefixApplied", func(t *testing.T) {
		type Config struct {
			Host string `toml:"host"`
		}
		specs, err := scopeconf.FieldsFromStruct("server", &Config{Host: "x"})
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "server.host", specs[0].Name)
	})

	t.Run("SkippedAndUnexported", func(t *testing.T) {
		type Config struct {
			Kept    string `toml:"kept"`
			Skipped string `toml:"-"`
			hidden  string //nolint:unused
		}
		specs, err := scopeconf.FieldsFromStruct("", &Config{Kept: "a", Skipped: "b"})
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.Equal(t, "kept", specs[0].Name)
	})

	t.Run("NotAStruct", func(t *testing.T) {
		_, err := scopeconf.FieldsFromStruct("", 42)
		assert.Error(t, err)

		var nilPtr *struct{ A int }
		_, err = scopeconf.FieldsFromStruct("", nilPtr)
		assert.Error(t, err)
	})

	t.Run("RequiredGetsNoDefault", func(t *testing.T) {
		type Config struct {
			APIKey string `toml:"api_key,required"`
		}
		specs, err := scopeconf.FieldsFromStruct("", &Config{})
		require.NoError(t, err)
		require.Len(t, specs, 1)
		assert.True(t, specs[0].Required)
		assert.Nil(t, specs[0].Default)
	})
}
