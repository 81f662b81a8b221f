package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/cryptofeed/pkg/jwtx"
)

type Config struct {
	Issuer        string        // Issuer claim for tokens (default: cryptofeed)
	AccessTTL     time.Duration // Access token lifetime (default: 120m)
	JWTSecret     string        // HS256 signing secret, takes precedence over JWTSecretFile
	JWTSecretFile string        // Optional: file holding the signing secret
	AdminSecret   string        // Optional: when set, registration requires X-Admin-Secret

	DatabaseFile        string        // Path to SQLite database file (default: ./data/feed.db)
	PepperFile          string        // Path to pepper file for secret hashing (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	MarketTickInterval  time.Duration // Market simulation tick (default: 3s)
}

func LoadConfig() Config {
	return Config{
		Issuer:        getEnvOrDefault("FEED_ISSUER", "cryptofeed"),
		AccessTTL:     getEnvDurationOrDefault("ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		JWTSecret:     os.Getenv("FEED_JWT_SECRET"),
		JWTSecretFile: os.Getenv("FEED_JWT_SECRET_FILE"),
		AdminSecret:   os.Getenv("ADMIN_SECRET"),

		DatabaseFile:        getEnvOrDefault("FEED_DATABASE_FILE", "./data/feed.db"),
		PepperFile:          getEnvOrDefault("FEED_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		MarketTickInterval:  getEnvDurationOrDefault("MARKET_TICK_INTERVAL", 3*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
