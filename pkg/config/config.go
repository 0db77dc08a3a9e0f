package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis
	RedisURL string

	// RabbitMQ
	RabbitMQURL string

	// Pairing
	PairingCodeTTL time.Duration

	// Content
	FreeCategoryID string

	// Readiness wait
	ReadinessMinimum      time.Duration
	ReadinessTimeout      time.Duration
	ReadinessPollInterval time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		UserID:      getEnv("DUET_USER_ID", "00000000-0000-0000-0000-000000000001"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("DUET_SQLITE_PATH", defaultSQLitePath()),
		RedisURL:    getEnv("REDIS_URL", ""),
		RabbitMQURL: getEnv("RABBITMQ_URL", ""),

		PairingCodeTTL: getDurationEnv("PAIRING_CODE_TTL", 24*time.Hour),

		FreeCategoryID: getEnv("DUET_FREE_CATEGORY_ID", "free-category"),

		ReadinessMinimum:      getDurationEnv("READINESS_MINIMUM", 2*time.Second),
		ReadinessTimeout:      getDurationEnv("READINESS_TIMEOUT", 10*time.Second),
		ReadinessPollInterval: getDurationEnv("READINESS_POLL_INTERVAL", 250*time.Millisecond),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".duet/duet.db"
	}
	return home + "/.duet/duet.db"
}
