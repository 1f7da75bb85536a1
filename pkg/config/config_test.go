package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flight-aggregator/internal/domain"
)

func TestLoad(t *testing.T) {
	os.Clearenv()

	t.Run("defaults when file is absent", func(t *testing.T) {
		os.Clearenv()
		t.Setenv("FLIGHT_AGGREGATOR_SKYSCANNER_API_KEY", "test-key")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.Cache.TTLSeconds)
		assert.Equal(t, 1000, cfg.Cache.MaxSize)
		assert.Equal(t, 50, cfg.Search.MaxSearchResults)
		assert.Equal(t, "test-key", cfg.ProviderKeys.SkyscannerAPIKey)
	})

	t.Run("environment variable overrides file value", func(t *testing.T) {
		os.Clearenv()
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("provider_keys:\n  skyscanner_api_key: from-file\n"), 0o600))

		t.Setenv("FLIGHT_AGGREGATOR_SKYSCANNER_API_KEY", "from-env")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.ProviderKeys.SkyscannerAPIKey)
	})

	t.Run("fails with no provider keys configured", func(t *testing.T) {
		os.Clearenv()
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() Config {
		cfg := Default()
		cfg.ProviderKeys.SkyscannerAPIKey = "key"
		return cfg
	}

	t.Run("valid default config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("cache ttl out of range rejected", func(t *testing.T) {
		cfg := base()
		cfg.Cache.TTLSeconds = 4000
		assert.Error(t, cfg.Validate())
	})

	t.Run("cache max size out of range rejected", func(t *testing.T) {
		cfg := base()
		cfg.Cache.MaxSize = 50
		assert.Error(t, cfg.Validate())
	})

	t.Run("http timeout out of range rejected", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.TimeoutSeconds = 1
		assert.Error(t, cfg.Validate())
	})

	t.Run("max search results out of range rejected", func(t *testing.T) {
		cfg := base()
		cfg.Search.MaxSearchResults = 5
		assert.Error(t, cfg.Validate())
	})

	t.Run("malformed currency rejected", func(t *testing.T) {
		cfg := base()
		cfg.Search.DefaultCurrency = "US"
		assert.Error(t, cfg.Validate())
	})

	t.Run("validation failures surface as ConfigurationError", func(t *testing.T) {
		cfg := base()
		cfg.Cache.TTLSeconds = 4000
		err := cfg.Validate()

		var configErr *domain.ConfigurationError
		require.True(t, errors.As(err, &configErr))
		assert.Equal(t, "cache_ttl_seconds", configErr.Setting)
	})
}
