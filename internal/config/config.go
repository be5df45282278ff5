package config

import (
	"fmt"     // For masked formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For durations

	"github.com/joho/godotenv"   // For loading .env files
	"github.com/pkg/errors"      // For startup validation errors
	"golang.org/x/crypto/bcrypt" // Default password hashing cost
)

// Config holds the application configuration
type Config struct {
	AppPort      string        // Application port
	DatabaseURL  string        // Database connection URL (sqlite:// or mysql://)
	SecretKey    string        // Session signing secret
	SessionTTL   time.Duration // Session cookie lifetime
	RedisAddr    string        // Redis server address, empty disables the cache
	RedisPass    string        // Redis password
	RedisDB      int           // Redis database number
	CacheTTL     time.Duration // Inventory cache entry lifetime
	BcryptCost   int           // Password hashing cost
	LogLevel     string        // Logrus level name
	OTLPEndpoint string        // OTLP/gRPC trace collector, empty disables tracing
	IsProd       bool          // Is production environment
}

// ErrMissingDatabaseURL is returned when no connection string is configured
var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is not set")

// ErrMissingSecretKey is returned when no session secret is configured
var ErrMissingSecretKey = errors.New("SECRET_KEY environment variable is not set")

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	redisDB, err := getEnvInt("REDIS_DB", 0) // Redis database number
	if err != nil {
		return nil, err
	}
	bcryptCost, err := getEnvInt("BCRYPT_COST", bcrypt.DefaultCost) // Password hashing cost
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getEnvDuration("SESSION_TTL", 24*time.Hour) // Session lifetime
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("CACHE_TTL", 60*time.Second) // Cache lifetime
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "5000"),               // Application port
		DatabaseURL:  os.Getenv("DATABASE_URL"),                // Database connection URL
		SecretKey:    os.Getenv("SECRET_KEY"),                  // Session signing secret
		SessionTTL:   sessionTTL,                               // Session lifetime
		RedisAddr:    os.Getenv("REDIS_ADDR"),                  // Redis server address
		RedisPass:    os.Getenv("REDIS_PASS"),                  // Redis password
		RedisDB:      redisDB,                                  // Redis database number
		CacheTTL:     cacheTTL,                                 // Cache lifetime
		BcryptCost:   bcryptCost,                               // Password hashing cost
		LogLevel:     getEnv("LOG_LEVEL", "info"),              // Log level
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), // Trace collector
		IsProd:       os.Getenv("IS_PROD") == "true",           // Is production environment
	}

	// Validate critical settings
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}
	if cfg.SecretKey == "" {
		return nil, ErrMissingSecretKey
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, errors.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	return cfg, nil
}

// CacheEnabled reports whether a Redis address was configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// String returns a representation of the config with secrets masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Redis: %q, Prod: %t, DB: *** (masked), Secret: *** (masked)}", c.AppPort, c.RedisAddr, c.IsProd)
}

// getEnv retrieves an environment variable with a default fallback
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback
func getEnvInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer for %s", key)
	}
	return intVal, nil
}

// getEnvDuration retrieves an environment variable as a duration with a default fallback
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration for %s", key)
	}
	return d, nil
}
