package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAPIBaseURL = "https://dummyjson.com"
	DefaultCacheTTL   = 5 * time.Minute
)

// Config holds all configuration for the storefront
type Config struct {
	// Server configuration
	ServerPort   string
	ServerHost   string
	CookieSecure bool

	// Upstream demo API
	APIBaseURL  string
	APITimeout  time.Duration
	CacheTTL    time.Duration
	DemoUserID  int
	AllowOrigin []string

	// Database configuration. DBDriver is "sqlite" or "postgres".
	DBDriver   string
	SQLitePath string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. Redis is optional; an empty RedisURL and RedisHost disables it.
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Session cookie signing
	SessionSecret string

	// Receipt archive. An empty bucket disables it.
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := defaults()

	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		ServerPort:  "8080",
		ServerHost:  "0.0.0.0",
		APIBaseURL:  DefaultAPIBaseURL,
		APITimeout:  15 * time.Second,
		CacheTTL:    DefaultCacheTTL,
		DemoUserID:  1,
		AllowOrigin: []string{"http://localhost:5173"},
		DBDriver:    "sqlite",
		SQLitePath:  "foodtrove.db",
		DBPort:      "5432",
		DBSSLMode:   "disable",
		RedisPort:   "6379",
	}
}

// loadCIConfig reads plain environment variables; secrets come from TEST_* variables
func loadCIConfig(cfg *Config) {
	loadFromEnv(cfg)
	cfg.DBPassword = getEnv("TEST_DB_PASSWORD", cfg.DBPassword)
	cfg.SessionSecret = getEnv("TEST_SESSION_SECRET", cfg.SessionSecret)
	cfg.RedisPassword = getEnv("TEST_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisURL = getEnv("TEST_REDIS_URL", cfg.RedisURL)
}

// loadDevConfig reads environment variables and falls back to a fixed development secret
func loadDevConfig(cfg *Config) {
	loadFromEnv(cfg)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = readSecret("session_secret")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "foodtrove-dev-session-secret"
	}
}

// loadProdConfig prefers Docker secrets and falls back to environment variables
func loadProdConfig(cfg *Config) {
	loadFromEnv(cfg)
	cfg.CookieSecure = true
	cfg.DBUser = secretOr("db_user", cfg.DBUser)
	cfg.DBPassword = secretOr("db_password", cfg.DBPassword)
	cfg.RedisPassword = secretOr("redis_password", cfg.RedisPassword)
	cfg.RedisURL = secretOr("redis_url", cfg.RedisURL)
	cfg.SessionSecret = secretOr("session_secret", cfg.SessionSecret)
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.CookieSecure = v == "true"
	}
}

func loadFromEnv(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.ServerHost = getEnv("SERVER_HOST", cfg.ServerHost)
	cfg.CookieSecure = getEnv("COOKIE_SECURE", "false") == "true"

	cfg.APIBaseURL = strings.TrimRight(getEnv("API_BASE_URL", cfg.APIBaseURL), "/")
	cfg.APITimeout = getDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.CacheTTL = getDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.DemoUserID = getInt("DEMO_USER_ID", cfg.DemoUserID)
	if origins := os.Getenv("CORS_ALLOW_ORIGINS"); origins != "" {
		cfg.AllowOrigin = strings.Split(origins, ",")
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", cfg.DBSSLMode)

	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = getInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)

	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)

	cfg.S3Bucket = getEnv("S3_BUCKET_NAME", cfg.S3Bucket)
	cfg.AWSRegion = getEnv("AWS_REGION", cfg.AWSRegion)
}

// RedisEnabled reports whether a Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func secretOr(name, fallback string) string {
	if v := readSecret(name); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
