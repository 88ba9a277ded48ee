// Package config loads storefront settings from an optional YAML file and
// the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Payment  PaymentConfig  `yaml:"payment"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	MaxUploadSize   int64         `yaml:"max_upload_size"`
}

// APIConfig points at the remote storefront API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
	Breaker BreakerConfig `yaml:"breaker"`
}

type BreakerConfig struct {
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

type StorageConfig struct {
	Driver        string `yaml:"driver"`
	SQLitePath    string `yaml:"sqlite_path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

type PaymentConfig struct {
	KeyID        string `yaml:"key_id"`
	MerchantName string `yaml:"merchant_name"`
}

type CheckoutConfig struct {
	RedirectDelay time.Duration `yaml:"redirect_delay"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:3000",
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  30 * time.Second,
			MaxUploadSize:   5 << 20, // 5MB
		},
		API: APIConfig{
			BaseURL: "http://localhost:5000",
			Timeout: 15 * time.Second,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
			},
		},
		Storage: StorageConfig{
			Driver:     DriverSQLite,
			SQLitePath: "storefront.db",
			RedisAddr:  "localhost:6379",
		},
		Payment: PaymentConfig{
			KeyID:        "your_razorpay_key_id",
			MerchantName: "NexaMart",
		},
		Checkout: CheckoutConfig{
			RedirectDelay: 3 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path (if non-empty) over the defaults and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.HTTP.Addr = getEnv("STOREFRONT_HTTP_ADDR", c.HTTP.Addr)
	c.API.BaseURL = getEnv("STOREFRONT_API_BASE_URL", c.API.BaseURL)
	c.Storage.Driver = getEnv("STOREFRONT_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.SQLitePath = getEnv("STOREFRONT_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = getEnv("REDIS_PASSWORD", c.Storage.RedisPassword)
	c.Payment.KeyID = getEnv("RAZORPAY_KEY_ID", c.Payment.KeyID)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)

	var err error
	if c.API.Timeout, err = getEnvDuration("STOREFRONT_API_TIMEOUT", c.API.Timeout); err != nil {
		return err
	}
	if c.Checkout.RedirectDelay, err = getEnvDuration("STOREFRONT_REDIRECT_DELAY", c.Checkout.RedirectDelay); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, errAtoi := strconv.Atoi(v)
		if errAtoi != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", errAtoi)
		}
		c.Storage.RedisDB = db
	}
	return nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return errors.New("storage.redis_addr is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.API.Timeout <= 0 || c.HTTP.ShutdownTimeout <= 0 || c.HTTP.RequestTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.Checkout.RedirectDelay < 0 {
		return errors.New("checkout.redirect_delay must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
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
