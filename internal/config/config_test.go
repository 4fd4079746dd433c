package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(oldWd))
	})
}

func TestValidateResolver(t *testing.T) {
	assert.NoError(t, ValidateResolver(ResolverELF))
	assert.NoError(t, ValidateResolver(ResolverLDD))
	assert.Error(t, ValidateResolver("magic"))
	assert.Error(t, ValidateResolver(""))
}

func TestFindAndParseConfig_NoConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	opts := struct {
		OutputDir string `mapstructure:"output"`
	}{}
	require.NoError(t, FindAndParseConfig(&opts))
	assert.Empty(t, opts.OutputDir)
}

func TestFindAndParseConfig_ReadsConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	configFile := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(configFile, []byte(
		"output: /tmp/my-bundle\nignore-libc: true\nignore:\n  - libcustom\n"), 0o644))
	chdir(t, dir)

	opts := struct {
		OutputDir      string   `mapstructure:"output"`
		IgnorePatterns []string `mapstructure:"ignore"`
		IgnoreLibc     bool     `mapstructure:"ignore-libc"`
	}{}
	require.NoError(t, FindAndParseConfig(&opts))
	assert.Equal(t, "/tmp/my-bundle", opts.OutputDir)
	assert.True(t, opts.IgnoreLibc)
	assert.Equal(t, []string{"libcustom"}, opts.IgnorePatterns)
}

func TestFindAndParseConfig_InvalidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{invalid yaml"), 0o644))
	chdir(t, dir)

	opts := struct{}{}
	require.Error(t, FindAndParseConfig(&opts))
}
