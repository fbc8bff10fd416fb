package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheBackendRedis    = "redis"
	CacheBackendPostgres = "postgres"
	CacheBackendNone     = "none"
)

type Config struct {
	Server    ServerConfig
	Origin    OriginConfig
	API       APIConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
}

type OriginConfig struct {
	BaseURL        string `env:"ORIGIN_BASE_URL" envDefault:"https://data.warfarin.wiki"`
	DataVersion    string `env:"ORIGIN_DATA_VERSION" envDefault:"v1"`
	TimeoutSeconds int    `env:"ORIGIN_TIMEOUT_SECONDS" envDefault:"15"`
}

func (c OriginConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// APIConfig versions the public API and the game data it serves. Both are
// part of every cache key, see Config.DataVersion.
type APIConfig struct {
	Version     string `env:"API_VERSION" envDefault:"v1"`
	GameVersion string `env:"GAME_VERSION" envDefault:"cbt2"`
}

type CacheConfig struct {
	Backend      string `env:"CACHE_BACKEND" envDefault:"redis"`
	WriteWorkers int    `env:"CACHE_WRITE_WORKERS" envDefault:"4"`
	WriteQueue   int    `env:"CACHE_WRITE_QUEUE" envDefault:"256"`
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"efdata"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB" envDefault:"efdata"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

type TelemetryConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"false"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

// DataVersion is the data version segment of cache keys. It names both the
// game version and the origin data version, so bumping either one moves the
// service to a fresh keyspace ("cbt2+v1").
func (c *Config) DataVersion() string {
	origin := strings.ReplaceAll(strings.Trim(c.Origin.DataVersion, "/"), "/", "-")
	return c.API.GameVersion + "+" + origin
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Origin.BaseURL == "" {
		return fmt.Errorf("ORIGIN_BASE_URL is required")
	}
	if c.Origin.DataVersion == "" {
		return fmt.Errorf("ORIGIN_DATA_VERSION is required")
	}
	if c.Origin.TimeoutSeconds <= 0 {
		return fmt.Errorf("ORIGIN_TIMEOUT_SECONDS must be positive")
	}
	if c.API.Version == "" || c.API.GameVersion == "" {
		return fmt.Errorf("API_VERSION and GAME_VERSION are required")
	}
	if strings.Contains(c.API.Version, "/") || strings.Contains(c.API.GameVersion, "/") {
		return fmt.Errorf("API_VERSION and GAME_VERSION must not contain '/'")
	}

	switch c.Cache.Backend {
	case CacheBackendRedis:
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis cache backend")
		}
	case CacheBackendPostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required for the postgres cache backend")
		}
	case CacheBackendNone:
	default:
		return fmt.Errorf("CACHE_BACKEND must be one of redis, postgres, none (got %q)", c.Cache.Backend)
	}

	if c.Cache.WriteWorkers <= 0 || c.Cache.WriteQueue <= 0 {
		return fmt.Errorf("CACHE_WRITE_WORKERS and CACHE_WRITE_QUEUE must be positive")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("OTEL_ENDPOINT is required when OTEL_ENABLED is true")
	}
	return nil
}
