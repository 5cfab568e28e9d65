package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "SERVICE_NAME", "VERSION",
	"GAME_CONFIG_PATH", "GAME_SCHEMA_PATH", "PRESENTATION_TIMEOUT", "FX_TIMEOUT",
	"SYMBOL_POOL_MAX", "SYMBOL_POOL_OVERFLOW", "BIG_WIN_THRESHOLD", "MEGA_WIN_THRESHOLD",
	"CONFIG_CACHE_SIZE", "CONFIG_CACHE_TTL", "METRICS_ADDR",
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		if value, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, DefaultPresentationTimeout, cfg.PresentationTimeout)
		assert.Equal(t, DefaultSymbolPoolMax, cfg.SymbolPoolMax)
		assert.Equal(t, OverflowReject, cfg.SymbolPoolOverflow)
		assert.True(t, cfg.BigWinThreshold.Equal(decimal.NewFromInt(10)))
		assert.True(t, cfg.MegaWinThreshold.Equal(decimal.NewFromInt(50)))
	})

	t.Run("loads values from environment", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("LOG_LEVEL", "DEBUG")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("PRESENTATION_TIMEOUT", "750ms")
		t.Setenv("SYMBOL_POOL_MAX", "4")
		t.Setenv("SYMBOL_POOL_OVERFLOW", "block")
		t.Setenv("BIG_WIN_THRESHOLD", "15")
		t.Setenv("MEGA_WIN_THRESHOLD", "100")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 750*time.Millisecond, cfg.PresentationTimeout)
		assert.Equal(t, 4, cfg.SymbolPoolMax)
		assert.Equal(t, OverflowBlock, cfg.SymbolPoolOverflow)
		assert.True(t, cfg.BigWinThreshold.Equal(decimal.NewFromInt(15)))
	})

	t.Run("rejects malformed threshold", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("BIG_WIN_THRESHOLD", "lots")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "BIG_WIN_THRESHOLD")
	})

	t.Run("rejects inverted thresholds", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("BIG_WIN_THRESHOLD", "60")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "MEGA_WIN_THRESHOLD")
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("parses valid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "-10")
		assert.Equal(t, -10, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("returns default for float values", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "42.5")
		assert.Equal(t, 10, getEnvAsInt("TEST_INT_VAR", 10))
	})
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_DURATION_VAR")
		assert.Equal(t, 5*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("parses valid duration", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "10m")
		assert.Equal(t, 10*time.Minute, getEnvAsDuration("TEST_DURATION_VAR", 5*time.Minute))
	})

	t.Run("returns default for bare numbers", func(t *testing.T) {
		t.Setenv("TEST_DURATION_VAR", "10")
		assert.Equal(t, time.Second, getEnvAsDuration("TEST_DURATION_VAR", time.Second))
	})
}
