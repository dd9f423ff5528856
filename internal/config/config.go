package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/flicky/go-shop/internal/model"
)

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Shop     ShopConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET" envDefault:"super-secret-key"`
	JWTExpiration time.Duration `env:"JWT_EXPIRATION" envDefault:"24h"`
	BcryptCost    int           `env:"BCRYPT_COST" envDefault:"10"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"admin"`
}

type ShopConfig struct {
	// CatalogSeedFile is a YAML product list. Empty uses the built-in catalog.
	CatalogSeedFile   string `env:"CATALOG_SEED_FILE"`
	OrderStatusPolicy string `env:"ORDER_STATUS_POLICY" envDefault:"any"`
}

// StatusPolicy resolves OrderStatusPolicy.
func (c ShopConfig) StatusPolicy() (model.StatusPolicy, error) {
	return model.ParseStatusPolicy(c.OrderStatusPolicy)
}

// RedisConfig leaves caching and event deduplication off when Addr is empty.
type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR"`
	Password        string        `env:"REDIS_PASSWORD" envDefault:""`
	DB              int           `env:"REDIS_DB" envDefault:"0"`
	ProductCacheTTL time.Duration `env:"PRODUCT_CACHE_TTL" envDefault:"5m"`
}

func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// RabbitMQConfig leaves order events off when URL is empty.
type RabbitMQConfig struct {
	URL string `env:"RABBITMQ_URL"`
}

func (c RabbitMQConfig) Enabled() bool { return c.URL != "" }

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// SlogLevel maps Level onto slog. Unknown values fall back to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load reads the environment. With APP_ENV=local a .env file in the working
// directory is applied first when present.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") == "local" {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Shop.StatusPolicy(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
