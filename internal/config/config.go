// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// MaxRegionLength matches the width of the region columns.
const MaxRegionLength = 50

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"APP_ENV"`
	Region      string `mapstructure:"REGION"`
	RegionColor string `mapstructure:"REGION_COLOR"`

	DBDriver                 string `mapstructure:"DB_DRIVER"`
	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBEncrypt                bool   `mapstructure:"DB_ENCRYPT"`
	DBTrustServerCertificate bool   `mapstructure:"DB_TRUST_SERVER_CERTIFICATE"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxIdleSeconds     int    `mapstructure:"DB_CONN_MAX_IDLE_SECONDS"`

	RedisURL                 string `mapstructure:"REDIS_URL"`
	AllowedOrigins           string `mapstructure:"ALLOWED_ORIGINS"`
	RateLimitWritesPerMinute int    `mapstructure:"RATE_LIMIT_WRITES_PER_MINUTE"`

	TracingEnabled     bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter    string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint       string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSampleRatio float64 `mapstructure:"TRACING_SAMPLE_RATIO"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A local .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional; environment variables are enough.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err == nil {
			log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
		}
	}

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("REGION", "Unknown Region")
	viper.SetDefault("REGION_COLOR", "#6c757d")
	viper.SetDefault("DB_DRIVER", DriverPostgres)
	viper.SetDefault("DB_HOST", "")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "socialMediaDB")
	viper.SetDefault("DB_USER", "sqladmin")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_ENCRYPT", true)
	viper.SetDefault("DB_TRUST_SERVER_CERTIFICATE", false)
	viper.SetDefault("DB_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 2)
	viper.SetDefault("DB_CONN_MAX_IDLE_SECONDS", 30)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_LIMIT_WRITES_PER_MINUTE", 30)
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLE_RATIO", 1.0)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.Region = strings.TrimSpace(c.Region)
	if c.Region == "" {
		c.Region = "Unknown Region"
	}
}

// Validate ensures that required configuration values are present.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if n := utf8.RuneCountInString(c.Region); n > MaxRegionLength {
		return fmt.Errorf("REGION must be at most %d characters, got %d", MaxRegionLength, n)
	}
	if c.RateLimitWritesPerMinute < 0 {
		return errors.New("RATE_LIMIT_WRITES_PER_MINUTE must not be negative")
	}

	if c.IsProduction() {
		if c.DatabaseConfigured() && !c.DBEncrypt {
			log.Println("WARNING: DB_ENCRYPT is false in production. Database traffic will not be encrypted.")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production.")
		}
	}

	return nil
}

// IsProduction reports whether the app runs with a production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// DatabaseConfigured reports whether enough settings are present to attempt
// a persistent storage connection. A server-based driver needs a host and a
// password; SQLite only needs a database file.
func (c *Config) DatabaseConfigured() bool {
	if c.DBDriver == DriverSQLite {
		return strings.TrimSpace(c.DBName) != ""
	}
	return strings.TrimSpace(c.DBHost) != "" && c.DBPassword != ""
}

// DatabaseRequested reports whether a database server was named, even if the
// rest of its settings are missing.
func (c *Config) DatabaseRequested() bool {
	if c.DBDriver == DriverSQLite {
		return c.DatabaseConfigured()
	}
	return strings.TrimSpace(c.DBHost) != ""
}

// RateLimitEnabled reports whether write limiting applies in this environment.
func (c *Config) RateLimitEnabled() bool {
	switch c.Env {
	case "", "development", "test":
		return false
	}
	return true
}

// SSLMode maps the encrypt and certificate-trust toggles onto a Postgres sslmode.
func (c *Config) SSLMode() string {
	switch {
	case !c.DBEncrypt:
		return "disable"
	case c.DBTrustServerCertificate:
		return "require"
	default:
		return "verify-full"
	}
}
