package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the developer's own environment out of Load.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"OPENWEATHER_API_KEY", "GOOGLE_MAPS_API_KEY", "VEHICLE_LLM_PROVIDER", "VEHICLE_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "vehicle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: ollama
  model: llama3
  timeout: 45s
history:
  backend: sqlite
  path: /tmp/history.db
music:
  playlist: [a.mp3, b.mp3]
handlers:
  disabled: [vehicle_info_agent]
`), 0o644))

	t.Setenv("VEHICLE_LOG_LEVEL", "debug")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("VEHICLE_MAPS_GOOGLE_API_KEY", "g-key")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, HistorySQLite, cfg.History.Backend)
	assert.Equal(t, "/tmp/history.db", cfg.History.Path)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, cfg.Music.Playlist)
	assert.Equal(t, []string{"vehicle_info_agent"}, cfg.Handlers.Disabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "ow-key", cfg.Maps.WeatherAPIKey)
	assert.Equal(t, "g-key", cfg.Maps.GoogleAPIKey)
	assert.Equal(t, 10*time.Second, cfg.Maps.Timeout)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(".env", []byte("GOOGLE_MAPS_API_KEY=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("GOOGLE_MAPS_API_KEY") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Maps.GoogleAPIKey)
}

func TestLoad_BadFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm: [unterminated"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"provider", func(c *Config) { c.LLM.Provider = "skynet" }, `invalid llm provider "skynet"`},
		{"llm timeout", func(c *Config) { c.LLM.Timeout = 0 }, "llm timeout must be positive"},
		{"maps timeout", func(c *Config) { c.Maps.Timeout = -time.Second }, "maps timeout must be positive"},
		{"rate", func(c *Config) { c.Maps.RequestsPerSecond = 0 }, "requests_per_second"},
		{"backend", func(c *Config) { c.History.Backend = "redis" }, `invalid history backend "redis"`},
		{"sqlite path", func(c *Config) { c.History.Backend = HistorySQLite; c.History.Path = "" }, "history path is required"},
		{"limit", func(c *Config) { c.History.Limit = 0 }, "history limit must be positive"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.LLM.Provider = "anthropic"
	want.LLM.Model = "claude-3-5-sonnet-latest"
	want.LLM.APIKey = "secret"
	want.Maps.WeatherAPIKey = "ow"
	want.Music.Playlist = []string{"one.mp3"}
	want.Handlers.Disabled = []string{"navigation_agent"}
	require.NoError(t, want.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandHome("~/.vehicleagent/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".vehicleagent", "config.yaml"), got)

	got, err = ExpandHome("/etc/vehicle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/vehicle.yaml", got)
}
