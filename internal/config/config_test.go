package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johaankjis/A-B-Testing-Framework-for-Feature-Adoption/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AB_DB_PATH", "postgres://localhost/abtest")
	t.Setenv("AB_PORT", "9090")
	t.Setenv("AB_TOKEN", "secret")
	t.Setenv("AB_LOG_LEVEL", "debug")
	t.Setenv("AB_LOG_DEV", "true")
	t.Setenv("AB_BOOTSTRAP_ITERATIONS", "2000")
	t.Setenv("AB_BOOTSTRAP_WORKERS", "4")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/abtest", cfg.Store.Path)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Server.Token)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 2000, cfg.Bootstrap.Iterations)
	assert.Equal(t, 4, cfg.Bootstrap.Workers)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("AB_PORT=7070\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("AB_PORT") })

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("AB_PORT", "eighty")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("zero iterations", func(t *testing.T) {
		t.Setenv("AB_BOOTSTRAP_ITERATIONS", "0")
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("negative workers", func(t *testing.T) {
		t.Setenv("AB_BOOTSTRAP_WORKERS", "-2")
		_, err := config.Load()
		assert.Error(t, err)
	})
}
