package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("TETHER_CONFIG_FILE", path)
	t.Setenv("TETHER_API_TOKEN", "")
	t.Setenv("TETHER_CLOUD_URL", "")
	t.Setenv("TETHER_REGISTRY_URL", "")
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	useTempConfig(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIToken)
	assert.Equal(t, DefaultCloudURL, cfg.CloudURL)
	assert.Equal(t, DefaultRegistryURL, cfg.RegistryURL)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	path := useTempConfig(t)
	content := `{"api_token": "from-file", "cloud_url": "https://cloud.example"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("TETHER_API_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIToken, "env var must override file value")
	assert.Equal(t, "https://cloud.example", cfg.CloudURL)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := useTempConfig(t)
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsBadEndpoint(t *testing.T) {
	useTempConfig(t)
	t.Setenv("TETHER_REGISTRY_URL", "registry.example")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestSaveRoundTrip(t *testing.T) {
	useTempConfig(t)

	require.NoError(t, Save(&Config{APIToken: "tok-123"}))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.APIToken)
}
