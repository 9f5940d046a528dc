// Package common provides shared utilities for Pallas
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Pallas
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Cache       CacheConfig   `toml:"cache"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage paths. The snapshot area backs the read-only
// asset store of bellwether indicator snapshots.
type StorageConfig struct {
	Snapshot AreaConfig `toml:"snapshot"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// CacheConfig selects the cache backend. Backend is "memory" or "redis".
type CacheConfig struct {
	Backend string `toml:"backend"`
	Redis   struct {
		Addr     string `toml:"addr"`
		Password string `toml:"password"`
		DB       int    `toml:"db"`
	} `toml:"redis"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	FMP       FMPConfig       `toml:"fmp"`
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
	Gemini    GeminiConfig    `toml:"gemini"`
}

// FMPConfig holds Financial Modeling Prep API configuration
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
		return 10 * time.Second
	}
	return d
}

// CoinGeckoConfig holds CoinGecko API configuration
type CoinGeckoConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Snapshot: AreaConfig{Path: "data/snapshots"},
		},
		Cache: CacheConfig{
			Backend: "memory",
		},
		Clients: ClientsConfig{
			FMP: FMPConfig{
				BaseURL:   "https://financialmodelingprep.com",
				RateLimit: 10,
				Timeout:   "10s",
			},
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://pro-api.coingecko.com/api/v3",
				RateLimit: 10,
				Timeout:   "5s",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
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
	if env := os.Getenv("PALLAS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("PALLAS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("PALLAS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("PALLAS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("PALLAS_SNAPSHOT_PATH"); path != "" {
		config.Storage.Snapshot.Path = path
	}

	if backend := os.Getenv("PALLAS_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if addr := os.Getenv("PALLAS_REDIS_ADDR"); addr != "" {
		config.Cache.Redis.Addr = addr
	}

	if key := resolveAPIKey("FMP_API_KEY", "PALLAS_FMP_API_KEY"); key != "" {
		config.Clients.FMP.APIKey = key
	}
	if key := resolveAPIKey("COINGECKO_API_KEY", "PALLAS_COINGECKO_API_KEY"); key != "" {
		config.Clients.CoinGecko.APIKey = key
	}
	if key := resolveAPIKey("GEMINI_API_KEY", "PALLAS_GEMINI_API_KEY", "GOOGLE_API_KEY"); key != "" {
		config.Clients.Gemini.APIKey = key
	}
}

// resolveAPIKey returns the first non-empty value among the named env vars.
func resolveAPIKey(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
