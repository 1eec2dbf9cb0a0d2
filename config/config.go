package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Lock      LockConfig
	RateLimit RateLimitConfig
	Parser    ParserConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds inventory store configuration
type DatabaseConfig struct {
	Driver      string        `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN         string        `mapstructure:"dsn"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	AutoMigrate bool          `mapstructure:"auto_migrate"`
	SeedUnits   bool          `mapstructure:"seed_units"`
}

// LockConfig holds per-user reconciliation lock configuration
type LockConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
	Wait     time.Duration `mapstructure:"wait"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// ParserConfig holds statement parser configuration
type ParserConfig struct {
	Cutoff float64 `mapstructure:"cutoff"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	Mode  string `mapstructure:"mode"` // "development" or "production"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fridgebot/")

	// Environment variable settings: FRIDGEBOT_DATABASE_DSN -> database.dsn
	v.SetEnvPrefix("FRIDGEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Variables already set in the environment
// are not overridden.
func loadEnvFile() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values.
// Every key needs a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.timeout", "5s")
	v.SetDefault("database.max_retries", 2)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.seed_units", true)

	// Lock defaults
	v.SetDefault("lock.type", "memory")
	v.SetDefault("lock.redis_url", "")
	v.SetDefault("lock.ttl", "10s")
	v.SetDefault("lock.wait", "5s")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	// Parser defaults
	v.SetDefault("parser.cutoff", 85.0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.mode", "development")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.DSN == "" {
		return fmt.Errorf("database DSN is required (set FRIDGEBOT_DATABASE_DSN)")
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return fmt.Errorf("database driver must be 'postgres' or 'sqlite', got: %s", config.Database.Driver)
	}

	if config.Database.MaxRetries < 0 {
		return fmt.Errorf("database max_retries must not be negative, got: %d", config.Database.MaxRetries)
	}

	if config.Lock.Type != "memory" && config.Lock.Type != "redis" {
		return fmt.Errorf("lock type must be 'memory' or 'redis', got: %s", config.Lock.Type)
	}

	if config.Lock.Type == "redis" && config.Lock.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when lock type is 'redis'")
	}

	if config.Parser.Cutoff < 60 || config.Parser.Cutoff > 100 {
		return fmt.Errorf("parser cutoff must be between 60 and 100, got: %v", config.Parser.Cutoff)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("rate limit per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
