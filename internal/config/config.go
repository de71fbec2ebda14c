package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrUnknownStorageDriver = errors.New("unknown storage driver (must be postgres or sqlite)")

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"cadence.db"`

	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer string        `env:"JWT_ISSUER" envDefault:"cadence-engine"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// AdminPasswordHash is the bcrypt hash of the operator password.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH,required,notEmpty"`

	RateLimit int `env:"RATE_LIMIT" envDefault:"100"`
}

// Load reads the environment into a Config. A .env file, when present,
// fills in anything not already exported.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.StorageDriver != DriverPostgres && cfg.StorageDriver != DriverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.StorageDriver)
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// RedisEnabled reports whether a Redis host was configured. The cache
// and the rate limiter are both optional.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}
