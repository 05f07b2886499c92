// Package config loads runtime settings from an optional config file, a
// .env file and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"vehicleagent/internal/llm"
	"vehicleagent/internal/memory"
)

const (
	EnvPrefix = "VEHICLE"

	HistoryMemory = "memory"
	HistorySQLite = "sqlite"
)

// DefaultPath is where the setup wizard writes its result.
const DefaultPath = "~/.vehicleagent/config.yaml"

type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Maps     MapsConfig     `mapstructure:"maps"`
	History  HistoryConfig  `mapstructure:"history"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Log      LogConfig      `mapstructure:"log"`
	Music    MusicConfig    `mapstructure:"music"`
	Handlers HandlersConfig `mapstructure:"handlers"`
}

type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type MapsConfig struct {
	WeatherAPIKey     string        `mapstructure:"weather_api_key"`
	GoogleAPIKey      string        `mapstructure:"google_api_key"`
	WeatherBaseURL    string        `mapstructure:"weather_base_url"`
	GoogleBaseURL     string        `mapstructure:"google_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

type HistoryConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

// CatalogConfig points at an optional YAML intent catalog. Empty means the
// builtin one.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
	// AuditFile receives one JSON line per dispatched turn.
	AuditFile string `mapstructure:"audit_file"`
}

type MusicConfig struct {
	Playlist []string `mapstructure:"playlist"`
}

type HandlersConfig struct {
	Disabled []string `mapstructure:"disabled"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: string(llm.ProviderGroq),
			Timeout:  30 * time.Second,
		},
		Maps: MapsConfig{
			WeatherBaseURL:    "https://api.openweathermap.org",
			GoogleBaseURL:     "https://maps.googleapis.com",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
		},
		History: HistoryConfig{
			Backend: HistoryMemory,
			Path:    "vehicleagent.db",
			Limit:   memory.DefaultLimit,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("maps.weather_api_key", "")
	v.SetDefault("maps.google_api_key", "")
	v.SetDefault("maps.weather_base_url", d.Maps.WeatherBaseURL)
	v.SetDefault("maps.google_base_url", d.Maps.GoogleBaseURL)
	v.SetDefault("maps.timeout", d.Maps.Timeout)
	v.SetDefault("maps.requests_per_second", d.Maps.RequestsPerSecond)
	v.SetDefault("history.backend", d.History.Backend)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.limit", d.History.Limit)
	v.SetDefault("catalog.path", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.file", "")
	v.SetDefault("log.audit_file", "")
}

// Load reads .env (if present), then the config file at path, then the
// environment. With an empty path, config.yaml is looked up in the working
// directory and ~/.vehicleagent; a missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names used by existing deployments.
	_ = v.BindEnv("maps.weather_api_key", EnvPrefix+"_MAPS_WEATHER_API_KEY", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("maps.google_api_key", EnvPrefix+"_MAPS_GOOGLE_API_KEY", "GOOGLE_MAPS_API_KEY")

	if path != "" {
		expanded, err := ExpandHome(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.vehicleagent")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

var providers = []llm.Provider{
	llm.ProviderGroq,
	llm.ProviderOllama,
	llm.ProviderOpenAI,
	llm.ProviderAnthropic,
	llm.ProviderGemini,
	llm.ProviderNone,
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if !slices.Contains(providers, llm.Provider(c.LLM.Provider)) {
		return fmt.Errorf("invalid llm provider %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return errors.New("llm timeout must be positive")
	}
	if c.Maps.Timeout <= 0 {
		return errors.New("maps timeout must be positive")
	}
	if c.Maps.RequestsPerSecond <= 0 {
		return errors.New("maps requests_per_second must be positive")
	}
	switch c.History.Backend {
	case HistoryMemory:
	case HistorySQLite:
		if c.History.Path == "" {
			return errors.New("history path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid history backend %q (must be memory or sqlite)", c.History.Backend)
	}
	if c.History.Limit <= 0 {
		return errors.New("history limit must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	path, err := ExpandHome(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	v := viper.New()
	v.Set("llm", map[string]any{
		"provider": c.LLM.Provider,
		"model":    c.LLM.Model,
		"base_url": c.LLM.BaseURL,
		"api_key":  c.LLM.APIKey,
		"timeout":  c.LLM.Timeout.String(),
	})
	v.Set("maps", map[string]any{
		"weather_api_key":     c.Maps.WeatherAPIKey,
		"google_api_key":      c.Maps.GoogleAPIKey,
		"weather_base_url":    c.Maps.WeatherBaseURL,
		"google_base_url":     c.Maps.GoogleBaseURL,
		"timeout":             c.Maps.Timeout.String(),
		"requests_per_second": c.Maps.RequestsPerSecond,
	})
	v.Set("history", map[string]any{
		"backend": c.History.Backend,
		"path":    c.History.Path,
		"limit":   c.History.Limit,
	})
	v.Set("catalog", map[string]any{"path": c.Catalog.Path})
	v.Set("log", map[string]any{
		"level":       c.Log.Level,
		"development": c.Log.Development,
		"file":        c.Log.File,
		"audit_file":  c.Log.AuditFile,
	})
	v.Set("music", map[string]any{"playlist": c.Music.Playlist})
	v.Set("handlers", map[string]any{"disabled": c.Handlers.Disabled})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandHome resolves a leading "~/".
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
