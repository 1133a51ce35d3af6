package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	return dir
}

func writeRaw(t *testing.T, home, content string, perm os.FileMode) {
	t.Helper()
	cfgDir := filepath.Join(home, ".roster")
	require.NoError(t, os.MkdirAll(cfgDir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config"), []byte(content), perm))
}

func TestSaveConfigCreatesDirectories(t *testing.T) {
	withHome(t)

	cfg := Config{ServerURL: "http://localhost:6868"}
	require.NoError(t, cfg.Save())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigNonExistent(t *testing.T) {
	withHome(t)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	withHome(t)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultRetryMax, cfg.RetryMax)
	assert.Equal(t, filepath.Join(Dir(), "roster.log"), cfg.LogFile)
}

func TestSaveLoadRoundtripWithAllFields(t *testing.T) {
	withHome(t)

	original := Config{
		ServerURL: "https://directory.example.com",
		APIKey:    "tok_123",
		PageSize:  25,
		Timeout:   5 * time.Second,
		RetryMax:  1,
		LogLevel:  "debug",
		LogFile:   "/tmp/roster.log",
		VimKeys:   true,
		Database:  "postgres://roster@localhost/employees",
	}
	require.NoError(t, original.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoadAppliesDefaultsAndTrimsServerURL(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "server_url: http://example.com/ \ntimeout: 2s\n", 0600)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
}

func TestLoadConfigEmptyFileUsesDefaults(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "", 0600)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	home := withHome(t)
	writeRaw(t, home, "invalid: yaml: content:", 0600)

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"negative page size": "page_size: -1\n",
		"negative retries":   "retry_max: -2\n",
		"bad scheme":         "server_url: ftp://example.com\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			home := withHome(t)
			writeRaw(t, home, content, 0600)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestConfigPermissionsStrictlyEnforced(t *testing.T) {
	withHome(t)

	cfg := Config{APIKey: "secret"}
	require.NoError(t, cfg.Save())
	require.NoError(t, os.Chmod(Path(), 0644))

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "permissions")

	_, err = LoadOrDefault()
	assert.Error(t, err, "insecure config is not silently replaced by defaults")
}

func TestPathReturnsCorrectLocation(t *testing.T) {
	path := Path()
	assert.Contains(t, path, ".roster")
	assert.Contains(t, path, "config")
}
