package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	// Point at a file that does not exist so a developer's configs/.env cannot leak in.
	args = append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "validacurp", cfg.AppName)
	assert.Equal(t, 2, cfg.APIVersion)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "none", cfg.CacheType)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.CacheCleanupInterval)
	assert.Empty(t, cfg.Token)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("VALIDACURP_TOKEN", " env-token ")
	t.Setenv("API_VERSION", "1")
	t.Setenv("CACHE_TYPE", "BBOLT")

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, 1, cfg.APIVersion)
	assert.Equal(t, "bbolt", cfg.CacheType)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("VALIDACURP_TOKEN", "env-token")

	cfg, err := Load(newFlags(t, "--token", "flag-token", "--api-version", "1", "--endpoint", "https://custom/curp/"))
	require.NoError(t, err)
	assert.Equal(t, "flag-token", cfg.Token)
	assert.Equal(t, 1, cfg.APIVersion)
	assert.Equal(t, "https://custom/curp/", cfg.Endpoint)
}

func TestLoadRejectsInvalidVersion(t *testing.T) {
	_, err := Load(newFlags(t, "--api-version", "3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_version")
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "0")
	_, err := Load(newFlags(t))
	require.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Config{Token: "secret"}
	assert.Equal(t, "***", cfg.Redacted().Token)
	assert.Equal(t, "secret", cfg.Token)
}
