package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".procctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("script_dir: /opt/scripts\nverbose: true\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "/opt/scripts", cfg.ScriptDir)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROCCTL_SCRIPT_DIR", "/tmp/scripts")

	v := viper.New()
	v.SetEnvPrefix("PROCCTL")
	v.AutomaticEnv()

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/scripts", cfg.ScriptDir)
}
