package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	JWTSecret    string
	Storage      string
	OrderDelay   time.Duration
	CheckoutIdle time.Duration
	LogLevel     zapcore.Level
	InstanceID   string
}

// Load reads configuration from environment variables, after loading a
// .env file when one is present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:         getenv("BETASHOP_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		Storage:      getenv("STORAGE_DRIVER", StorageMemory),
		OrderDelay:   2 * time.Second,
		CheckoutIdle: 30 * time.Minute,
		LogLevel:     zapcore.InfoLevel,
		InstanceID:   getenv("INSTANCE_ID", uuid.NewString()),
	}

	if v := os.Getenv("ORDER_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, fmt.Errorf("ORDER_DELAY: invalid duration %q", v)
		}
		cfg.OrderDelay = d
	}
	if v := os.Getenv("CHECKOUT_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("CHECKOUT_IDLE_TIMEOUT: invalid duration %q", v)
		}
		cfg.CheckoutIdle = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = lvl
	}

	switch cfg.Storage {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is not set")
		}
	default:
		return Config{}, fmt.Errorf("STORAGE_DRIVER: unknown driver %q", cfg.Storage)
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is not set")
	}
	return cfg, nil
}

// Logger builds the production zap logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
