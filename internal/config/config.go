package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Logging LoggingConfig `yaml:"logging"`
}

type APIConfig struct {
	// BaseURL is the CMS API root, e.g. https://api.example.com/api.
	BaseURL string `yaml:"base_url"`
	// Origin is the backend origin media paths resolve against. Defaults
	// to BaseURL with any /api suffix stripped.
	Origin    string        `yaml:"origin"`
	Locale    string        `yaml:"locale"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
}

type SessionConfig struct {
	// File is where the session token and user snapshot persist between
	// runs. Empty means the per-user config directory.
	File string `yaml:"file"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the optional YAML config file, then applies environment
// overrides and defaults. An empty path skips the file entirely.
func Load(path string) (Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.API.BaseURL = getEnv("EVENTCLIENT_API_URL", cfg.API.BaseURL)
	cfg.API.Origin = getEnv("EVENTCLIENT_ORIGIN", cfg.API.Origin)
	cfg.API.Locale = getEnv("EVENTCLIENT_LOCALE", cfg.API.Locale)
	cfg.Session.File = getEnv("EVENTCLIENT_SESSION_FILE", cfg.Session.File)
	cfg.Logging.Level = getEnv("EVENTCLIENT_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("EVENTCLIENT_LOG_FORMAT", cfg.Logging.Format)
	if v := os.Getenv("EVENTCLIENT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			cfg.API.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("EVENTCLIENT_RATE_LIMIT"); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.API.RateLimit = rps
		}
	}

	applyDefaults(&cfg)

	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("EVENTCLIENT_API_URL is required")
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.Locale == "" {
		cfg.API.Locale = "en"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.RateLimit <= 0 {
		cfg.API.RateLimit = 20
	}
	if cfg.API.Origin == "" {
		cfg.API.Origin = trimAPISuffix(cfg.API.BaseURL)
	}
	if cfg.Session.File == "" {
		cfg.Session.File = defaultSessionFile()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func trimAPISuffix(base string) string {
	const suffix = "/api"
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
		return base[:len(base)-len(suffix)]
	}
	return base
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "eventctl-session.json")
	}
	return filepath.Join(dir, "eventctl", "session.json")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
