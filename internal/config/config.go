package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for the fee engine
type Config struct {
	Server   ServerConfig   `mapstructure:",squash"`
	Database DatabaseConfig `mapstructure:",squash"`
	Redis    RedisConfig    `mapstructure:",squash"`
	Fees     FeeConfig      `mapstructure:",squash"`
	Health   HealthConfig   `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
	CacheTTL string `mapstructure:"REDIS_CACHE_TTL"`
}

// FeeConfig carries the ledger's business knobs.
type FeeConfig struct {
	DefaultFeeType    string `mapstructure:"DEFAULT_FEE_TYPE"`
	DefaultMonthlyFee string `mapstructure:"DEFAULT_MONTHLY_FEE"`
	AllowedAbsences   int    `mapstructure:"ALLOWED_ABSENCES"`
	AbsenceFineAmount string `mapstructure:"ABSENCE_FINE_AMOUNT"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_CACHE_TTL", "10m")
	viper.SetDefault("DEFAULT_FEE_TYPE", "tuition")
	viper.SetDefault("DEFAULT_MONTHLY_FEE", "1000")
	viper.SetDefault("ALLOWED_ABSENCES", 3)
	viper.SetDefault("ABSENCE_FINE_AMOUNT", "500")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// No sensible defaults, but registering the keys lets AutomaticEnv feed
	// them into Unmarshal.
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_PASSWORD", "")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Fees.DefaultFeeType == "" {
		return fmt.Errorf("DEFAULT_FEE_TYPE is required")
	}

	if c.Fees.AllowedAbsences < 0 {
		return fmt.Errorf("ALLOWED_ABSENCES must not be negative")
	}

	if _, err := decimal.NewFromString(c.Fees.DefaultMonthlyFee); err != nil {
		return fmt.Errorf("DEFAULT_MONTHLY_FEE must be a valid decimal: %w", err)
	}

	if _, err := decimal.NewFromString(c.Fees.AbsenceFineAmount); err != nil {
		return fmt.Errorf("ABSENCE_FINE_AMOUNT must be a valid decimal: %w", err)
	}

	if _, err := time.ParseDuration(c.Redis.CacheTTL); err != nil {
		return fmt.Errorf("REDIS_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultMonthlyFee returns the default monthly fee as decimal
func (c *Config) GetDefaultMonthlyFee() decimal.Decimal {
	fee, _ := decimal.NewFromString(c.Fees.DefaultMonthlyFee)
	return fee
}

// GetAbsenceFineAmount returns the flat absence fine as decimal
func (c *Config) GetAbsenceFineAmount() decimal.Decimal {
	fine, _ := decimal.NewFromString(c.Fees.AbsenceFineAmount)
	return fine
}

// GetCacheTTL returns the redis cache TTL as duration
func (c *Config) GetCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Redis.CacheTTL)
	return ttl
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
