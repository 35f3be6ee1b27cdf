// File: scopeconf/args_test.go
package scopeconf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scopeconf"
)

func TestParseArgs(t *testing.T) {
	t.Run("EqualsForm", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"--host=example.com", "--port=9090"})
		require.NoError(t, err)
		assert.Equal(t, scopeconf.SourceCLI, src.Name())

		v, found := src.Lookup("host")
		require.True(t, found)
		assert.Equal(t, "example.com", v)

		v, _ = src.Lookup("port")
		assert.Equal(t, "9090", v)
	})

	t.Run("SpaceForm", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"--host", "example.com"})
		require.NoError(t, err)

		v, found := src.Lookup("host")
		require.True(t, found)
		assert.Equal(t, "example.com", v)
	})

	t.Run("BareFlagIsTrue", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"--verbose", "--host=x"})
		require.NoError(t, err)

		v, found := src.Lookup("verbose")
		require.True(t, found)
		assert.Equal(t, "true", v)

		// trailing bare flag
		src, err = scopeconf.ParseArgs([]string{"--debug"})
		require.NoError(t, err)
		v, _ = src.Lookup("debug")
		assert.Equal(t, "true", v)
	})

	t.Run("DottedKeys", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"--server.port=9090"})
		require.NoError(t, err)

		v, found := src.Lookup("server.port")
		require.True(t, found)
		assert.Equal(t, "9090", v)
	})

	t.Run("NonFlagArgumentsSkipped", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"positional", "--key=value", "another"})
		require.NoError(t, err)

		v, found := src.Lookup("key")
		require.True(t, found)
		assert.Equal(t, "value", v)

		_, found = src.Lookup("positional")
		assert.False(t, found)
	})

	t.Run("ValueKeepsEquals", func(t *testing.T) {
		src, err := scopeconf.ParseArgs([]string{"--dsn=user=app password=x"})
		require.NoError(t, err)

		v, _ := src.Lookup("dsn")
		assert.Equal(t, "user=app password=x", v)
	})

	t.Run("InvalidKeyRejected", func(t *testing.T) {
		_, err := scopeconf.ParseArgs([]string{"--bad key=value"})
		assert.Error(t, err)

		_, err = scopeconf.ParseArgs([]string{"--server..port=1"})
		assert.Error(t, err)
	})

	t.Run("EmptyArgs", func(t *testing.T) {
		src, err := scopeconf.ParseArgs(nil)
		require.NoError(t, err)
		_, found := src.Lookup("anything")
		assert.False(t, found)
	})
}
