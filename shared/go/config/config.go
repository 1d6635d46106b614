package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"useraccounts/internal/apperr"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Store selection and connection settings
	Store StoreConfig

	// Server configuration
	Server ServerConfig

	// Security configuration
	Security SecurityConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig
}

// StoreConfig selects the credential store and holds its connection settings.
type StoreConfig struct {
	Driver   string
	Timeout  time.Duration // per-request deadline on store calls
	Database DatabaseConfig
	Mongo    MongoConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URL      string
	Database string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds security-related settings
type SecurityConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string // debug, info, warn, error
	Format    string // json, text
	File      string
	MaxSizeMB int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadStore(); err != nil {
		return nil, apperr.Wrap(apperr.Config, "load store config", err)
	}

	if err := cfg.loadServer(); err != nil {
		return nil, apperr.Wrap(apperr.Config, "load server config", err)
	}

	if err := cfg.loadSecurity(); err != nil {
		return nil, apperr.Wrap(apperr.Config, "load security config", err)
	}

	cfg.loadCORS()

	if err := cfg.loadLogging(); err != nil {
		return nil, apperr.Wrap(apperr.Config, "load logging config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadStore() error {
	c.Store.Driver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", DriverPostgres))

	timeout, err := getDurationOrDefault("STORE_TIMEOUT", 10*time.Second)
	if err != nil {
		return err
	}
	c.Store.Timeout = timeout

	c.Store.Mongo.URL = getEnvOrDefault("MONGO_URL", "mongodb://localhost:27017")
	c.Store.Mongo.Database = getEnvOrDefault("MONGO_DATABASE", "useraccounts")

	return c.loadDatabase()
}

func (c *Config) loadDatabase() error {
	db := &c.Store.Database

	// Try to load DATABASE_URL first
	db.URL = os.Getenv("DATABASE_URL")

	// If not present, construct from individual parameters
	if db.URL == "" {
		db.Host = getEnvOrDefault("DB_HOST", "localhost")
		db.User = os.Getenv("DB_USER")
		db.Password = os.Getenv("DB_PASSWORD")
		db.Name = os.Getenv("DB_NAME")
		db.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

		port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
		if err != nil {
			return fmt.Errorf("invalid DB_PORT: %w", err)
		}
		db.Port = port

		// Construct URL if all components are present
		if db.Host != "" && db.User != "" && db.Name != "" {
			db.URL = fmt.Sprintf(
				"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
				db.User,
				db.Password,
				db.Host,
				db.Port,
				db.Name,
				db.SSLMode,
			)
		}
	}

	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 15 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	return nil
}

func (c *Config) loadSecurity() error {
	c.Security.JWTSecret = os.Getenv("JWT_SECRET")

	ttl, err := getDurationOrDefault("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return err
	}
	c.Security.TokenTTL = ttl

	cost, err := strconv.Atoi(getEnvOrDefault("BCRYPT_COST", "10"))
	if err != nil {
		return fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	c.Security.BcryptCost = cost
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv != "" {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		c.CORS.AllowedOrigins = origins
	} else {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		}
	}
}

func (c *Config) loadLogging() error {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
	c.Logging.File = os.Getenv("LOG_FILE")

	size, err := strconv.Atoi(getEnvOrDefault("LOG_MAX_SIZE_MB", "50"))
	if err != nil {
		return fmt.Errorf("invalid LOG_MAX_SIZE_MB: %w", err)
	}
	c.Logging.MaxSizeMB = size
	return nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var problems []string

	// Validate store configuration
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Store.Database.URL == "" {
			problems = append(problems, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME)")
		}
	case DriverMongo:
		if c.Store.Mongo.URL == "" {
			problems = append(problems, "MONGO_URL is required")
		}
		if c.Store.Mongo.Database == "" {
			problems = append(problems, "MONGO_DATABASE is required")
		}
	case DriverMemory:
	default:
		problems = append(problems, "STORE_DRIVER must be one of: postgres, mongo, memory")
	}
	if c.Store.Timeout <= 0 {
		problems = append(problems, "STORE_TIMEOUT must be positive")
	}

	// Validate security configuration
	if c.Security.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	} else if len(c.Security.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET must be at least 16 characters")
	}
	if c.Security.TokenTTL <= 0 {
		problems = append(problems, "TOKEN_TTL must be positive")
	}
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		problems = append(problems, "BCRYPT_COST must be between 4 and 31")
	}

	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "PORT must be between 1 and 65535")
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		problems = append(problems, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		problems = append(problems, "LOG_FORMAT must be one of: json, text")
	}

	if len(problems) > 0 {
		return apperr.Wrap(apperr.Config, "configuration validation failed",
			errors.New("\n  - "+strings.Join(problems, "\n  - ")))
	}

	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
