package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"coursepay/internal/payfast"
)

// EnvProduction is the APP_ENV value that disables development conveniences.
const EnvProduction = "production"

// ErrMerchantKeyRequired is returned when production runs without a merchant key.
var ErrMerchantKeyRequired = errors.New("PAYFAST_MERCHANT_KEY must be set in production")

// Config holds all configuration for the application.
type Config struct {
	AppEnv     string         `yaml:"app_env" validate:"required"`
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Redis      RedisConfig    `yaml:"redis"`
	NewRelic   NewRelicConfig `yaml:"new_relic"`
	PayFast    PayFastConfig  `yaml:"payfast"`
	WebhookURL string         `yaml:"webhook_url" validate:"omitempty,url"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string        `yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host        string `yaml:"host" validate:"required"`
	Port        string `yaml:"port" validate:"required,numeric"`
	User        string `yaml:"user" validate:"required"`
	Password    string `yaml:"password"`
	DBName      string `yaml:"dbname" validate:"required"`
	SSLMode     string `yaml:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" validate:"required_if=Enabled true"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string `yaml:"app_name"`
	LicenseKey string `yaml:"license_key" validate:"required_if=Enabled true"`
	Enabled    bool   `yaml:"enabled"`
}

// PayFastConfig holds the merchant credentials and ITN validation settings.
type PayFastConfig struct {
	MerchantID  string  `yaml:"merchant_id" validate:"required"`
	MerchantKey string  `yaml:"merchant_key"`
	Passphrase  string  `yaml:"passphrase"`
	Sandbox     bool    `yaml:"sandbox"`
	ValidateURL string  `yaml:"validate_url" validate:"omitempty,url"`
	ValidateRPS float64 `yaml:"validate_rps" validate:"gte=0"`
}

// ValidationURL returns the remote validate endpoint: the explicit override if
// set, otherwise the sandbox or production endpoint.
func (c PayFastConfig) ValidationURL() string {
	if c.ValidateURL != "" {
		return c.ValidateURL
	}
	if c.Sandbox {
		return payfast.SandboxValidateURL
	}
	return payfast.ProductionValidateURL
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// IsDevelopment reports whether development conveniences apply. Anything that
// is not production counts as development.
func (c *Config) IsDevelopment() bool {
	return !c.IsProduction()
}

// Load loads configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables, in increasing precedence. Outside
// production a .env file is read first.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != EnvProduction {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env not loaded", "error", err)
		}
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// Validate checks the configuration the HTTP server needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.PayFast.MerchantKey == "" {
		return ErrMerchantKeyRequired
	}
	return nil
}

func defaults() *Config {
	return &Config{
		AppEnv: "development",
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    "5432",
			User:    "postgres",
			DBName:  "coursepay",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Enabled: true,
			Addr:    "localhost:6379",
		},
		NewRelic: NewRelicConfig{
			AppName: "coursepay",
		},
		WebhookURL: "http://localhost:8080/api/v1/webhooks/payfast",
	}
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)

	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnv("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnv("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)
	cfg.Database.AutoMigrate = getBoolEnv("DB_AUTO_MIGRATE", cfg.Database.AutoMigrate)

	cfg.Redis.Enabled = getBoolEnv("REDIS_ENABLED", cfg.Redis.Enabled)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getIntEnv("REDIS_DB", cfg.Redis.DB)

	cfg.NewRelic.AppName = getEnv("NEW_RELIC_APP_NAME", cfg.NewRelic.AppName)
	cfg.NewRelic.LicenseKey = getEnv("NEW_RELIC_LICENSE_KEY", cfg.NewRelic.LicenseKey)
	cfg.NewRelic.Enabled = getBoolEnv("NEW_RELIC_ENABLED", cfg.NewRelic.Enabled)

	cfg.PayFast.MerchantID = getEnv("PAYFAST_MERCHANT_ID", cfg.PayFast.MerchantID)
	cfg.PayFast.MerchantKey = getEnv("PAYFAST_MERCHANT_KEY", cfg.PayFast.MerchantKey)
	cfg.PayFast.Passphrase = getEnv("PAYFAST_PASSPHRASE", cfg.PayFast.Passphrase)
	cfg.PayFast.Sandbox = getBoolEnv("PAYFAST_SANDBOX", cfg.PayFast.Sandbox)
	cfg.PayFast.ValidateURL = getEnv("PAYFAST_VALIDATE_URL", cfg.PayFast.ValidateURL)
	cfg.PayFast.ValidateRPS = getFloatEnv("PAYFAST_VALIDATE_RPS", cfg.PayFast.ValidateRPS)

	cfg.WebhookURL = getEnv("WEBHOOK_URL", cfg.WebhookURL)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		slog.Warn("ignoring invalid integer environment variable", "key", key, "value", value)
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
		slog.Warn("ignoring invalid number environment variable", "key", key, "value", value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
		slog.Warn("ignoring invalid boolean environment variable", "key", key, "value", value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		slog.Warn("ignoring invalid duration environment variable", "key", key, "value", value)
	}
	return defaultValue
}
