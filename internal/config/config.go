package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	S3        S3Config
	Catalog   CatalogConfig
	Glucose   GlucoseConfig
	USDA      USDAConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	APIKey string
}

// S3Config holds AWS S3 configuration for the food dataset.
type S3Config struct {
	Enabled bool
	Bucket  string
	Region  string
	Prefix  string // Path prefix within bucket (e.g., "catalog/")
}

// Catalog sources.
const (
	CatalogSourceFile     = "file"
	CatalogSourceDatabase = "database"
)

// CatalogConfig controls where the food catalog comes from and when it reloads.
type CatalogConfig struct {
	Path           string
	Source         string // "file" or "database"
	ReloadEnabled  bool
	ReloadSchedule string // gocron At() times, e.g. "03:00" or "06:00;18:00"
}

// GlucoseConfig holds defaults for glucose estimates.
type GlucoseConfig struct {
	DefaultSensitivity float64
	DefaultBaseline    float64
	CarbBasis          string // "total" or "net"
}

// USDAConfig holds FoodData Central settings for the remote fallback.
type USDAConfig struct {
	Enabled bool
	APIKey  string
	BaseURL string
}

// RateLimitConfig holds per-client token bucket settings.
type RateLimitConfig struct {
	Rate     float64 // tokens per second
	Capacity int64
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: databaseFromEnv(),
		Logger:   LoggerFromEnv("info", "json"),
		Auth: AuthConfig{
			APIKey: getEnv("API_KEY", ""),
		},
		S3: S3Config{
			Enabled: getEnvAsBool("S3_ENABLED", false),
			Bucket:  getEnv("S3_BUCKET", ""),
			Region:  getEnv("S3_REGION", "us-east-1"),
			Prefix:  getEnv("S3_PREFIX", "catalog/"),
		},
		Catalog: CatalogConfig{
			Path:           getEnv("CATALOG_PATH", "data/foods.json"),
			Source:         getEnv("CATALOG_SOURCE", CatalogSourceFile),
			ReloadEnabled:  getEnvAsBool("CATALOG_RELOAD_ENABLED", true),
			ReloadSchedule: getEnv("CATALOG_RELOAD_SCHEDULE", "03:00"),
		},
		Glucose: GlucoseConfig{
			DefaultSensitivity: getEnvAsFloat("GLUCOSE_DEFAULT_SENSITIVITY", 12.0),
			DefaultBaseline:    getEnvAsFloat("GLUCOSE_DEFAULT_BASELINE", 100.0),
			CarbBasis:          getEnv("GLUCOSE_CARB_BASIS", "total"),
		},
		USDA: USDAConfig{
			Enabled: getEnvAsBool("USDA_ENABLED", false),
			APIKey:  getEnv("USDA_API_KEY", ""),
			BaseURL: getEnv("USDA_BASE_URL", "https://api.nal.usda.gov"),
		},
		RateLimit: RateLimitConfig{
			Rate:     getEnvAsFloat("RATE_LIMIT_RATE", 5),
			Capacity: int64(getEnvAsInt("RATE_LIMIT_CAPACITY", 100)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func databaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Enabled:         getEnvAsBool("DB_ENABLED", false),
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnvAsInt("DB_PORT", 5432),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", ""),
		Database:        getEnv("DB_NAME", "carbwise"),
		MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
		MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
		MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
	}
}

// LoadDatabase reads only the DB_* settings, for tools that need a
// connection without the rest of the server configuration. DB_ENABLED is
// ignored.
func LoadDatabase() (DatabaseConfig, error) {
	_ = godotenv.Load()

	cfg := databaseFromEnv()
	cfg.Enabled = true
	if err := cfg.validate(); err != nil {
		return DatabaseConfig{}, fmt.Errorf("database configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoggerFromEnv reads LOG_LEVEL and LOG_FORMAT with the given defaults.
func LoggerFromEnv(level, format string) LoggerConfig {
	return LoggerConfig{
		Level:  getEnv("LOG_LEVEL", level),
		Format: getEnv("LOG_FORMAT", format),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Enabled {
		if err := c.Database.validate(); err != nil {
			return err
		}
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if err := c.Logger.Validate(); err != nil {
		return err
	}

	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
	}

	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required")
		}
	case CatalogSourceDatabase:
		if !c.Database.Enabled {
			return fmt.Errorf("catalog source database requires DB_ENABLED")
		}
	default:
		return fmt.Errorf("invalid catalog source: %s (must be file or database)", c.Catalog.Source)
	}

	if c.Catalog.ReloadEnabled && strings.TrimSpace(c.Catalog.ReloadSchedule) == "" {
		return fmt.Errorf("catalog reload schedule is required when reload is enabled")
	}

	if c.Glucose.DefaultSensitivity <= 0 {
		return fmt.Errorf("glucose default sensitivity must be greater than zero")
	}

	if c.Glucose.DefaultBaseline < 0 {
		return fmt.Errorf("glucose default baseline must not be negative")
	}

	if c.Glucose.CarbBasis != "total" && c.Glucose.CarbBasis != "net" {
		return fmt.Errorf("invalid carb basis: %s (must be total or net)", c.Glucose.CarbBasis)
	}

	if c.USDA.Enabled && c.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required when USDA is enabled")
	}

	if c.RateLimit.Rate <= 0 {
		return fmt.Errorf("rate limit rate must be greater than zero")
	}

	if c.RateLimit.Capacity < 1 {
		return fmt.Errorf("rate limit capacity must be at least 1")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// Validate checks the log level and format.
func (c LoggerConfig) Validate() error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}

	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value.
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
