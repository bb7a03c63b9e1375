package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restflow.yaml")
	content := `
baseURL: https://api.example.com
timeout: 5000
rateLimit: 10
headers:
  Authorization: Bearer tok
history: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, 5000, cfg.Timeout)
	assert.Equal(t, float64(10), cfg.RateLimit)
	assert.Equal(t, "Bearer tok", cfg.Headers["Authorization"])
	assert.True(t, cfg.GetHistory())
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFindAndLoadConfig_SearchOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "restflow.yaml"), []byte("timeout: 1000"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".restflow.yaml"), []byte("timeout: 2000"), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	// The dotfile comes first in the search list.
	assert.Equal(t, 2000, cfg.Timeout)
}

func TestFindAndLoadConfig_DefaultsWhenAbsent(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 30000, cfg.Timeout)
	assert.False(t, cfg.GetHistory())
	assert.False(t, cfg.GetNoColor())
}

func TestConfig_Merge(t *testing.T) {
	base := &Config{
		BaseURL: "https://api.example.com",
		Timeout: 30000,
		Headers: map[string]string{"X-Base": "1"},
	}
	override := &Config{
		Timeout: 5000,
		Headers: map[string]string{"X-Extra": "2"},
		NoColor: BoolPtr(true),
	}

	merged := base.Merge(override)

	assert.Equal(t, "https://api.example.com", merged.BaseURL)
	assert.Equal(t, 5000, merged.Timeout)
	assert.Equal(t, "1", merged.Headers["X-Base"])
	assert.Equal(t, "2", merged.Headers["X-Extra"])
	assert.True(t, merged.GetNoColor())

	// Inputs must not be mutated.
	assert.NotContains(t, base.Headers, "X-Extra")
}

func TestConfig_MergeNil(t *testing.T) {
	base := &Config{Timeout: 1000}
	assert.Equal(t, base, base.Merge(nil))
}

func TestConfig_SaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".restflow.yaml")

	cfg := DefaultConfig()
	cfg.BaseURL = "https://api.example.com"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.BaseURL, loaded.BaseURL)
	assert.Equal(t, cfg.Timeout, loaded.Timeout)
}
