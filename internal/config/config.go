package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"go.yaml.in/yaml/v4"
)

const defaultConfigPath = "config.yaml"

type OIDCProviderConfig struct {
	Id        string `yaml:"id"`
	Name      string `yaml:"name"`
	IssuerURL string `yaml:"issuer_url"`
	ClientID  string `yaml:"client_id"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowed_origins"`
	AllowedMethods   []string `yaml:"allowed_methods"`
	AllowedHeaders   []string `yaml:"allowed_headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

type RemindersConfig struct {
	ResendAPIKey string `yaml:"resend_api_key"`
	Email        string `yaml:"email"`
	From         string `yaml:"from"`
	UserID       string `yaml:"user_id"`
}

type Config struct {
	ListenAddr    string               `yaml:"listen_addr"`
	APIBaseURL    string               `yaml:"api_base_url"`
	AuthToken     string               `yaml:"auth_token"`
	Storage       StorageConfig        `yaml:"storage"`
	AuthEnabled   bool                 `yaml:"auth_enabled"`
	OIDCProviders []OIDCProviderConfig `yaml:"oidc_providers"`
	Timezone      string               `yaml:"timezone"`
	StreakMode    string               `yaml:"streak_mode"`
	LogLevel      string               `yaml:"log_level"`
	LogFormat     string               `yaml:"log_format"`
	LogFile       string               `yaml:"log_file"`
	CORS          CORSConfig           `yaml:"cors"`
	Reminders     RemindersConfig      `yaml:"reminders"`
}

func defaults() Config {
	return Config{
		ListenAddr: ":8080",
		APIBaseURL: "http://localhost:8080",
		Storage:    StorageConfig{Driver: "bolt", Path: "habits.db"},
		Timezone:   "Local",
		StreakMode: "calendar",
		LogLevel:   "info",
		LogFormat:  "text",
		Reminders:  RemindersConfig{From: "habittrax <reminders@habittrax.app>"},
	}
}

// Load reads the YAML file named by HABITS_CONFIG, or config.yaml when unset,
// and applies environment overrides. A missing config.yaml yields defaults;
// a missing file named explicitly is an error.
func Load() (Config, error) {
	cfg := defaults()

	path, explicit := os.LookupEnv("HABITS_CONFIG")
	if !explicit || path == "" {
		path, explicit = defaultConfigPath, false
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.fillDefaults()
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// fillDefaults restores defaults for fields a config file left empty.
func (c *Config) fillDefaults() {
	d := defaults()
	for _, f := range []struct {
		dst *string
		def string
	}{
		{&c.ListenAddr, d.ListenAddr},
		{&c.APIBaseURL, d.APIBaseURL},
		{&c.Storage.Driver, d.Storage.Driver},
		{&c.Storage.Path, d.Storage.Path},
		{&c.Timezone, d.Timezone},
		{&c.StreakMode, d.StreakMode},
		{&c.LogLevel, d.LogLevel},
		{&c.LogFormat, d.LogFormat},
		{&c.Reminders.From, d.Reminders.From},
	} {
		if *f.dst == "" {
			*f.dst = f.def
		}
	}
}

func applyEnv(cfg *Config) {
	cfg.APIBaseURL = getenv("HABITS_API_BASE", cfg.APIBaseURL)
	cfg.Storage.Path = getenv("HABITS_DB_PATH", cfg.Storage.Path)
	cfg.Storage.Driver = getenv("HABITS_STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.AuthToken = getenv("HABITS_AUTH_TOKEN", cfg.AuthToken)
	cfg.ListenAddr = getenv("HABITS_LISTEN_ADDR", cfg.ListenAddr)
	cfg.Timezone = getenv("HABITS_TIMEZONE", cfg.Timezone)
	cfg.Reminders.ResendAPIKey = getenv("HABITS_RESEND_API_KEY", cfg.Reminders.ResendAPIKey)
	cfg.Reminders.Email = getenv("HABITS_NOTIFY_EMAIL", cfg.Reminders.Email)
}

func (c Config) Validate() error {
	if !slices.Contains([]string{"bolt", "sqlite"}, c.Storage.Driver) {
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if !slices.Contains([]string{"", "calendar", "cadence"}, c.StreakMode) {
		return fmt.Errorf("unknown streak_mode %q", c.StreakMode)
	}
	if !slices.Contains([]string{"", "text", "json"}, c.LogFormat) {
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone. "Local" and "" mean time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
