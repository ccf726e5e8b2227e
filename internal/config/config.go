// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Mode is the storage backend the server runs against. Decided once at
// startup and never changed at runtime.
type Mode string

const (
	// ModeDemo runs entirely against a local file-backed store with
	// in-memory sessions. No MariaDB or Redis required.
	ModeDemo Mode = "demo"

	// ModeRemote runs against MariaDB and Redis.
	ModeRemote Mode = "remote"
)

// Placeholder values that ship in .env.example. If the DB settings still
// hold these, the operator never configured a backend and we run in demo
// mode rather than failing to connect.
const (
	placeholderDBHost = "your-database-host"
	placeholderDBURL  = "your-database-url"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for CORS and cookies.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Database holds MariaDB connection settings (remote mode only).
	Database DatabaseConfig

	// Redis holds Redis connection settings (remote mode only).
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// Demo holds demo-mode storage settings.
	Demo DemoConfig
}

// DatabaseConfig holds MariaDB connection parameters. Individual fields
// (Host, User, Password, Name) are read from separate env vars so container
// orchestrators can manage each independently. If DATABASE_URL is set, it
// takes precedence over the individual fields.
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format. If no port is
	// specified, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "tally").
	User string

	// Password is the MariaDB password.
	Password string

	// Name is the database name (default: "tally").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// configured reports whether the operator actually pointed us at a real
// database: a host or URL that is non-empty and not a placeholder.
func (d DatabaseConfig) configured() bool {
	if v := strings.TrimSpace(d.dsnOverride); v != "" && v != placeholderDBURL {
		return true
	}
	v := strings.TrimSpace(d.Host)
	return v != "" && v != placeholderDBHost
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SessionTTL is how long sessions last before expiring.
	SessionTTL time.Duration
}

// DemoConfig holds settings for the local file-backed store used when no
// remote backend is configured.
type DemoConfig struct {
	// DataPath is the JSON data file written by the local store.
	DataPath string
}

// Mode returns the storage mode for this process: remote when a real
// database host or URL was supplied, demo otherwise. The decision is a
// pure function of Config so it cannot drift after startup.
func (c *Config) Mode() Mode {
	if c.Database.configured() {
		return ModeRemote
	}
	return ModeDemo
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is loaded first if
// present; real environment variables win over .env entries.
func Load() (*Config, error) {
	// Ignore the error: a missing .env is the normal case in containers.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", ""),
			User:            getEnv("DB_USER", "tally"),
			Password:        getEnv("DB_PASSWORD", "tally"),
			Name:            getEnv("DB_NAME", "tally"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			SessionTTL: getEnvDuration("SESSION_TTL", 720*time.Hour),
		},

		Demo: DemoConfig{
			DataPath: getEnv("DEMO_DATA_PATH", "./data/tally.json"),
		},
	}

	// Demo mode is for local evaluation only. Refuse to boot a production
	// deployment without a real backend.
	envLower := strings.ToLower(cfg.Env)
	if (envLower == "production" || envLower == "prod") && cfg.Mode() == ModeDemo {
		return nil, fmt.Errorf("DATABASE_URL or DB_HOST is required in production")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
