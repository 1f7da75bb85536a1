// Package config loads application configuration from a YAML file, with
// API keys overridable by environment variables so secrets never need
// to live in a committed file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"flight-aggregator/internal/domain"
)

// Config holds every recognized configuration key from SPEC_FULL.md §10/
// spec §6.1.
type Config struct {
	ProviderKeys ProviderKeysConfig `yaml:"provider_keys"`
	Cache        CacheConfig        `yaml:"cache"`
	HTTP         HTTPConfig         `yaml:"http"`
	Logging      LoggingConfig      `yaml:"logging"`
	Search       SearchConfig       `yaml:"search"`
}

// ProviderKeysConfig carries the four back-end API keys. Only a
// configured (non-empty) key enables its back-end.
type ProviderKeysConfig struct {
	SkyscannerAPIKey string `yaml:"skyscanner_api_key"`
	SearchAPIKey     string `yaml:"searchapi_key"`
	RapidAPIKey      string `yaml:"rapidapi_key"`
	KiwiAPIKey       string `yaml:"kiwi_api_key"`
}

type CacheConfig struct {
	Enabled    bool `yaml:"cache_enabled"`
	TTLSeconds int  `yaml:"cache_ttl_seconds"`
	MaxSize    int  `yaml:"cache_max_size"`
}

type HTTPConfig struct {
	TimeoutSeconds float64 `yaml:"http_timeout_seconds"`
	MaxRetries     int     `yaml:"http_max_retries"`
}

type LoggingConfig struct {
	Level  string `yaml:"log_level"`
	Format string `yaml:"log_format"`
}

type SearchConfig struct {
	MaxSearchResults int    `yaml:"max_search_results"`
	DefaultCurrency  string `yaml:"default_currency"`
}

// Default returns the baseline configuration with every default named
// in spec §6.1.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: 300,
			MaxSize:    1000,
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
			MaxRetries:     3,
		},
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "console",
		},
		Search: SearchConfig{
			MaxSearchResults: 50,
			DefaultCurrency:  "USD",
		},
	}
}

// Load reads configuration from path (a YAML file), falling back to
// defaults for any key the file omits, then applies environment
// variable overrides for the four API keys
// (FLIGHT_AGGREGATOR_SKYSCANNER_API_KEY, FLIGHT_AGGREGATOR_SEARCHAPI_KEY,
// FLIGHT_AGGREGATOR_RAPIDAPI_KEY, FLIGHT_AGGREGATOR_KIWI_API_KEY).
// Load validates the result and fails startup if zero API keys end up
// configured.
func Load(path string) (*Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverride(&cfg.ProviderKeys.SkyscannerAPIKey, "FLIGHT_AGGREGATOR_SKYSCANNER_API_KEY")
	applyEnvOverride(&cfg.ProviderKeys.SearchAPIKey, "FLIGHT_AGGREGATOR_SEARCHAPI_KEY")
	applyEnvOverride(&cfg.ProviderKeys.RapidAPIKey, "FLIGHT_AGGREGATOR_RAPIDAPI_KEY")
	applyEnvOverride(&cfg.ProviderKeys.KiwiAPIKey, "FLIGHT_AGGREGATOR_KIWI_API_KEY")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverride(field *string, envKey string) {
	if v, ok := os.LookupEnv(envKey); ok && v != "" {
		*field = v
	}
}

// Validate enforces the ranges documented in spec §6.1 and the
// startup-fails-on-zero-API-keys rule carried over from original_source.
func (c Config) Validate() error {
	if !c.hasAnyProviderKey() {
		return domain.NewConfigurationError("provider_keys", "no provider API keys configured, at least one of skyscanner_api_key, searchapi_key, rapidapi_key, kiwi_api_key is required")
	}
	if c.Cache.TTLSeconds < 0 || c.Cache.TTLSeconds > 3600 {
		return domain.NewConfigurationError("cache_ttl_seconds", "must be between 0 and 3600")
	}
	if c.Cache.MaxSize < 100 || c.Cache.MaxSize > 10000 {
		return domain.NewConfigurationError("cache_max_size", "must be between 100 and 10000")
	}
	if c.HTTP.TimeoutSeconds < 5 || c.HTTP.TimeoutSeconds > 120 {
		return domain.NewConfigurationError("http_timeout_seconds", "must be between 5 and 120")
	}
	if c.HTTP.MaxRetries < 0 || c.HTTP.MaxRetries > 10 {
		return domain.NewConfigurationError("http_max_retries", "must be between 0 and 10")
	}
	if c.Search.MaxSearchResults < 10 || c.Search.MaxSearchResults > 200 {
		return domain.NewConfigurationError("max_search_results", "must be between 10 and 200")
	}
	if len(strings.TrimSpace(c.Search.DefaultCurrency)) != 3 {
		return domain.NewConfigurationError("default_currency", "must be a 3-letter code")
	}
	return nil
}

func (c Config) hasAnyProviderKey() bool {
	return c.ProviderKeys.SkyscannerAPIKey != "" ||
		c.ProviderKeys.SearchAPIKey != "" ||
		c.ProviderKeys.RapidAPIKey != "" ||
		c.ProviderKeys.KiwiAPIKey != ""
}
