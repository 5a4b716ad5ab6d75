// Package config handles application configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Cache     CacheConfig
	DocDB     DocDBConfig
	Vault     VaultConfig
	TenantAPI TenantAPIConfig
	NLG       NLGConfig
	Sweep     SweepConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host       string
	Port       int
	GinMode    string
	ServiceKey string
}

// Address returns the server address in host:port format.
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig holds the redis session-store configuration.
type CacheConfig struct {
	Type     string
	Host     string
	Port     string
	Password string
	DB       int
	// Retention is the redis-level TTL backstop on session records. The
	// logical expiry policy is much shorter; this only bounds abandoned keys.
	Retention time.Duration
}

// DocDBConfig holds the transcript archive configuration.
type DocDBConfig struct {
	Type     string
	URI      string
	Database string
}

// VaultConfig holds vault configuration.
type VaultConfig struct {
	Type          string
	EncryptionKey string
}

// TenantAPIConfig holds the tenant authentication/loan API configuration.
// The shared secret is resolved through the vault at startup.
type TenantAPIConfig struct {
	BaseURL         string
	SharedSecretRef string
	Timeout         time.Duration
}

// NLGConfig holds the text-generation collaborator configuration.
type NLGConfig struct {
	BaseURL    string
	APIKeyRef  string
	SmallModel string
	LargeModel string
	Timeout    time.Duration
}

// SweepConfig holds the background session sweep configuration.
type SweepConfig struct {
	Enabled bool
	// Spec is a cron expression; defaults to hourly.
	Spec string
	// PurgeAfter is the idle horizon past which non-authenticated sessions
	// are deleted outright.
	PurgeAfter time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:       getEnv("SERVER_HOST", "0.0.0.0"),
			Port:       getEnvAsInt("SERVER_PORT", 8086),
			GinMode:    getEnv("GIN_MODE", "debug"),
			ServiceKey: getEnv("CALLBACK_SERVICE_KEY", ""),
		},
		Cache: CacheConfig{
			Type:      getEnv("CACHE_TYPE", "redis"),
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Retention: getEnvAsDuration("SESSION_RETENTION_HOURS", 168) * time.Hour,
		},
		DocDB: DocDBConfig{
			Type:     getEnv("DOCDB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "coopassist"),
		},
		Vault: VaultConfig{
			Type:          getEnv("VAULT_TYPE", "dotenv"),
			EncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", ""),
		},
		TenantAPI: TenantAPIConfig{
			BaseURL:         getEnv("TENANT_API_BASE_URL", "http://localhost:8090"),
			SharedSecretRef: getEnv("TENANT_API_SECRET_REF", "dotenv://TENANT_API_SHARED_SECRET"),
			Timeout:         getEnvAsDuration("TENANT_API_TIMEOUT_SECONDS", 30) * time.Second,
		},
		NLG: NLGConfig{
			BaseURL:    getEnv("NLG_BASE_URL", "https://api.openai.com/v1"),
			APIKeyRef:  getEnv("NLG_API_KEY_REF", "dotenv://NLG_API_KEY"),
			SmallModel: getEnv("NLG_SMALL_MODEL", "gpt-4o-mini"),
			LargeModel: getEnv("NLG_LARGE_MODEL", "gpt-4o"),
			Timeout:    getEnvAsDuration("NLG_TIMEOUT_SECONDS", 30) * time.Second,
		},
		Sweep: SweepConfig{
			Enabled:    getEnv("SWEEP_ENABLED", "true") == "true",
			Spec:       getEnv("SWEEP_CRON", "@hourly"),
			PurgeAfter: getEnvAsDuration("SWEEP_PURGE_HOURS", 24) * time.Hour,
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration gets an environment variable as a unit count; the caller
// multiplies by the unit.
func getEnvAsDuration(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultValue))
}
