package config_test

import (
	"os"
	"testing"

	"cartstore/pkg/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup. Equivalent to t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restoring working directory: %v", err)
		}
	})
}

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	viper.Reset()
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvLocal, cfg.App.Env)
	assert.Equal(t, "carts.db", cfg.Sqlite.Path)
}

func TestLoad_FromConfigFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	chdir(t, dir)

	contents := []byte("app:\n  env: prod\nsqlite:\n  path: /var/lib/cartstore/carts.db\n")
	require.NoError(t, os.WriteFile("config.yaml", contents, 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.EnvProd, cfg.App.Env)
	assert.Equal(t, "/var/lib/cartstore/carts.db", cfg.Sqlite.Path)
}

func TestLoad_RejectsUnknownEnv(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	chdir(t, dir)

	contents := []byte("app:\n  env: staging\n")
	require.NoError(t, os.WriteFile("config.yaml", contents, 0o644))

	_, err := config.Load()
	assert.Error(t, err)
}
