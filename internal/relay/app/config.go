package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/cryptofeed/internal/relay/service"
	"github.com/aussiebroadwan/cryptofeed/pkg/feedsdk"
)

type Config struct {
	ServerURL       string        // Feed server base URL (default: http://localhost:8000)
	ClientID        string        // Default tenant client_id
	ClientSecret    string        // Default tenant client_secret
	AppName         string        // Default tenant app name
	AdminSecret     string        // Sent upstream as X-Admin-Secret on register
	UpstreamTimeout time.Duration // Per-request timeout towards the feed server (default: 30s)
	TokenBuffer     time.Duration // Tokens are renewed this long before expiry (default: 1m)

	RelayAdminSecret     string        // Gates register-user and default identity changes (default: ADMIN_SECRET)
	DatabaseFile         string        // Path to SQLite database file (default: ./data/relay.db)
	PepperFile           string        // Path to pepper file for password hashing (default: ./relay-pepper)
	MasterKeyFile        string        // Optional: key file sealing bound client secrets
	SessionTTL           time.Duration // Login session lifetime (default: 24h)
	HousekeepingInterval time.Duration // Expired session cleanup interval (default: 1h)

	Env                 string
	LogLevel            string
	LogFormat           string
	Port                int           // HTTP server port (default: 8001)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		ServerURL:       getEnvOrDefault("SERVER_URL", "http://localhost:8000"),
		ClientID:        os.Getenv("CLIENT_ID"),
		ClientSecret:    os.Getenv("CLIENT_SECRET"),
		AppName:         getEnvOrDefault("APP_NAME", "Crypto Client App"),
		AdminSecret:     os.Getenv("ADMIN_SECRET"),
		UpstreamTimeout: getEnvDurationOrDefault("UPSTREAM_TIMEOUT", feedsdk.DefaultTimeout),
		TokenBuffer:     getEnvDurationOrDefault("TOKEN_BUFFER", feedsdk.DefaultBuffer),

		RelayAdminSecret:     getEnvOrDefault("RELAY_ADMIN_SECRET", os.Getenv("ADMIN_SECRET")),
		DatabaseFile:         getEnvOrDefault("RELAY_DATABASE_FILE", "./data/relay.db"),
		PepperFile:           getEnvOrDefault("RELAY_PEPPER_FILE", "relay-pepper"),
		MasterKeyFile:        os.Getenv("RELAY_MASTER_KEY_FILE"),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", service.DefaultSessionTTL),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8001),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Credentials returns the default tenant identity.
func (c Config) Credentials() feedsdk.Credentials {
	return feedsdk.Credentials{ClientID: c.ClientID, ClientSecret: c.ClientSecret, AppName: c.AppName}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if intValue, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return intValue
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("90s") or bare minutes.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
