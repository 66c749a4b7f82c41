// Package common provides shared utilities for Stockdeck
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Stockdeck
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Cache       CacheConfig   `toml:"cache"`
	Clients     ClientsConfig `toml:"clients"`
	Backend     BackendConfig `toml:"backend"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// CacheConfig holds the persistent cache store configuration
type CacheConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	FMP FMPConfig `toml:"fmp"`
}

// FMPConfig holds Financial Modeling Prep API configuration.
// An empty APIKey is not an error: it switches the market data client
// into offline mode, serving synthetic data for every request.
type FMPConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *FMPConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// BackendConfig holds the curated-list backend (SurrealDB) configuration
type BackendConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Cache: CacheConfig{
			Path: "data/cache",
		},
		Clients: ClientsConfig{
			FMP: FMPConfig{
				BaseURL:   "https://financialmodelingprep.com/stable",
				RateLimit: 5,
				Timeout:   "15s",
			},
		},
		Backend: BackendConfig{
			Address:   "ws://localhost:8000",
			Username:  "root",
			Password:  "root",
			Namespace: "stockdeck",
			Database:  "stockdeck",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKDECK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKDECK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKDECK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("STOCKDECK_CACHE_PATH"); path != "" {
		config.Cache.Path = path
	}

	if addr := os.Getenv("STOCKDECK_BACKEND_ADDRESS"); addr != "" {
		config.Backend.Address = addr
	}
	if user := os.Getenv("STOCKDECK_BACKEND_USERNAME"); user != "" {
		config.Backend.Username = user
	}
	if pass := os.Getenv("STOCKDECK_BACKEND_PASSWORD"); pass != "" {
		config.Backend.Password = pass
	}

	// The market-data credential: checked under both the provider's own
	// name and the app-scoped name.
	for _, name := range []string{"FMP_API_KEY", "STOCKDECK_FMP_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Clients.FMP.APIKey = key
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
