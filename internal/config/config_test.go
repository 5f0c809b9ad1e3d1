package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(APIKeyEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://api.openweathermap.org/data/2.5", cfg.Weather.OpenWeatherMap.BaseURL)
	assert.Equal(t, 10, cfg.Weather.OpenWeatherMap.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Weather.OpenWeatherMap.APIKey)
}

func TestLoadAPIKeyFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(APIKeyEnv, "env-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Weather.OpenWeatherMap.APIKey)
}

func TestLoadPrefixedEnvWinsOverConventionalName(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(APIKeyEnv, "env-key")
	t.Setenv("OWT_WEATHER_OPENWEATHERMAP_API_KEY", "prefixed-key")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prefixed-key", cfg.Weather.OpenWeatherMap.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv(APIKeyEnv, "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
weather:
  openweathermap:
    base_url: http://localhost:1234/data/2.5
    api_key: file-key
    timeout: 0
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:1234/data/2.5", cfg.Weather.OpenWeatherMap.BaseURL)
	assert.Equal(t, "file-key", cfg.Weather.OpenWeatherMap.APIKey)
	assert.Equal(t, 0, cfg.Weather.OpenWeatherMap.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetConfigFallsBackToDefaults(t *testing.T) {
	cfg := GetConfig()
	require.NotNil(t, cfg)

	custom := NewDefaultConfig()
	custom.Server.Port = 7070
	SetConfig(custom)
	assert.Equal(t, 7070, GetConfig().Server.Port)
}
