// Package config loads runtime settings from .env, an optional YAML file and
// KHOBOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. KHOBOR_BACKEND_BASE_URL.
const EnvPrefix = "KHOBOR"

const (
	DefaultBaseURL   = "http://localhost:8000"
	DefaultUserAgent = "khobor-topics/1.0"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Config is the full runtime configuration.
type Config struct {
	Backend    BackendConfig
	Log        LogConfig
	Publishers PublishersConfig
}

// BackendConfig points at the reporting backend.
type BackendConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// LogConfig selects zap level and encoding.
type LogConfig struct {
	Level  string
	Format string
}

// PublishersConfig locates the relay publishers file. Empty disables relaying.
type PublishersConfig struct {
	File string
}

// Load reads .env (if any), then the config file at path (if non-empty), then
// environment overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Backend: BackendConfig{
			BaseURL:   strings.TrimRight(strings.TrimSpace(v.GetString("backend.base_url")), "/"),
			Timeout:   v.GetDuration("backend.timeout"),
			UserAgent: strings.TrimSpace(v.GetString("backend.user_agent")),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString("log.level"))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString("log.format"))),
		},
		Publishers: PublishersConfig{
			File: strings.TrimSpace(v.GetString("publishers.file")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", DefaultBaseURL)
	v.SetDefault("backend.timeout", time.Duration(0))
	v.SetDefault("backend.user_agent", DefaultUserAgent)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("publishers.file", "")
}

// Validate checks the settings that would otherwise fail on first use.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must be http or https, got %q", c.Backend.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend.base_url has no host: %q", c.Backend.BaseURL)
	}
	if c.Backend.Timeout < 0 {
		return fmt.Errorf("backend.timeout must not be negative, got %s", c.Backend.Timeout)
	}
	return nil
}
