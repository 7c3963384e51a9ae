package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read through this package only.
type Config struct {
	Env string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis snapshot cache
	Redis RedisConfig

	// Market data sources
	Primary  SourceConfig
	Fallback SourceConfig

	// Batch tuning
	Batch BatchConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds the optional snapshot cache configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration
}

// SourceConfig holds one market data source.
type SourceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BatchConfig tunes the nightly analysis run.
type BatchConfig struct {
	LookbackDays     int           // bootstrap window when a symbol has no usable history
	MinBars          int           // minimum series length before indicators are computed
	SymbolsPerSecond float64       // pacing between symbols
	FetchRetries     int           // attempts against the primary source
	FetchBackoff     time.Duration // initial retry backoff
	StrategyFile     string        // suitability thresholds YAML, empty = compiled defaults
	Schedule         string        // cron spec for the scheduler daemon
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("REDIS_SNAPSHOT_TTL", "15m"),
		},

		Primary: SourceConfig{
			BaseURL: getEnv("PRIMARY_BASE_URL", "https://query1.finance.yahoo.com"),
			Timeout: getEnvAsDuration("PRIMARY_TIMEOUT", "30s"),
		},

		Fallback: SourceConfig{
			BaseURL: getEnv("FALLBACK_BASE_URL", "https://stooq.com"),
			Timeout: getEnvAsDuration("FALLBACK_TIMEOUT", "30s"),
		},

		Batch: BatchConfig{
			LookbackDays:     getEnvAsInt("BATCH_LOOKBACK_DAYS", 250),
			MinBars:          getEnvAsInt("BATCH_MIN_BARS", 200),
			SymbolsPerSecond: getEnvAsFloat("BATCH_SYMBOLS_PER_SECOND", 1.0),
			FetchRetries:     getEnvAsInt("BATCH_FETCH_RETRIES", 3),
			FetchBackoff:     getEnvAsDuration("BATCH_FETCH_BACKOFF", "500ms"),
			StrategyFile:     getEnv("STRATEGY_FILE", ""),
			Schedule:         getEnv("BATCH_SCHEDULE", "0 0 18 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Batch.MinBars < 1 {
		return fmt.Errorf("BATCH_MIN_BARS must be positive")
	}

	if c.Batch.SymbolsPerSecond <= 0 {
		return fmt.Errorf("BATCH_SYMBOLS_PER_SECOND must be positive")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
