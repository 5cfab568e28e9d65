package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds the engine runtime settings
type Config struct {
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string

	GameConfigPath string
	GameSchemaPath string

	PresentationTimeout time.Duration
	FXTimeout           time.Duration

	SymbolPoolMax      int
	SymbolPoolOverflow string

	BigWinThreshold  decimal.Decimal
	MegaWinThreshold decimal.Decimal

	ConfigCacheSize int
	ConfigCacheTTL  time.Duration

	MetricsAddr string // empty disables the metrics listener
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:            strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(getEnv("LOG_FORMAT", "text")),
		Environment:         getEnv("ENVIRONMENT", "dev"),
		ServiceName:         getEnv("SERVICE_NAME", "slotforge"),
		Version:             getEnv("VERSION", "dev"),
		GameConfigPath:      getEnv("GAME_CONFIG_PATH", ConfigPathDefaultGame),
		GameSchemaPath:      getEnv("GAME_SCHEMA_PATH", ConfigPathGameSchema),
		PresentationTimeout: getEnvAsDuration("PRESENTATION_TIMEOUT", DefaultPresentationTimeout),
		FXTimeout:           getEnvAsDuration("FX_TIMEOUT", DefaultFXTimeout),
		SymbolPoolMax:       getEnvAsInt("SYMBOL_POOL_MAX", DefaultSymbolPoolMax),
		SymbolPoolOverflow:  strings.ToLower(getEnv("SYMBOL_POOL_OVERFLOW", OverflowReject)),
		ConfigCacheSize:     getEnvAsInt("CONFIG_CACHE_SIZE", DefaultConfigCacheSize),
		ConfigCacheTTL:      getEnvAsDuration("CONFIG_CACHE_TTL", DefaultConfigCacheTTL),
		MetricsAddr:         getEnv("METRICS_ADDR", DefaultMetricsAddr),
	}

	var err error
	if cfg.BigWinThreshold, err = getEnvAsDecimal("BIG_WIN_THRESHOLD", DefaultBigWinThreshold); err != nil {
		return nil, err
	}
	if cfg.MegaWinThreshold, err = getEnvAsDecimal("MEGA_WIN_THRESHOLD", DefaultMegaWinThreshold); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no environment is present
func Default() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Environment:         "dev",
		ServiceName:         "slotforge",
		Version:             "dev",
		GameConfigPath:      ConfigPathDefaultGame,
		GameSchemaPath:      ConfigPathGameSchema,
		PresentationTimeout: DefaultPresentationTimeout,
		FXTimeout:           DefaultFXTimeout,
		SymbolPoolMax:       DefaultSymbolPoolMax,
		SymbolPoolOverflow:  OverflowReject,
		BigWinThreshold:     decimal.RequireFromString(DefaultBigWinThreshold),
		MegaWinThreshold:    decimal.RequireFromString(DefaultMegaWinThreshold),
		ConfigCacheSize:     DefaultConfigCacheSize,
		ConfigCacheTTL:      DefaultConfigCacheTTL,
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default on absence or parse error
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a duration variable, falling back to the default on absence or parse error
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDecimal(key, defaultValue string) (decimal.Decimal, error) {
	raw := getEnv(key, defaultValue)
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}
