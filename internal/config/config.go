package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type Config struct {
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`

	Log LogConfig `mapstructure:"log"`

	StoreDriver string `mapstructure:"store_driver"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisPass   string `mapstructure:"redis_pass"`
	RedisDB     int    `mapstructure:"redis_db"`
	PostgresDSN string `mapstructure:"postgres_dsn"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTExpiry time.Duration `mapstructure:"jwt_expiry"`

	NonceTTL           time.Duration `mapstructure:"nonce_ttl"`
	NonceSweepSchedule string        `mapstructure:"nonce_sweep_schedule"`

	// BetRateLimit is bets per user per minute.
	BetRateLimit int `mapstructure:"bet_rate_limit"`

	HouseEdgeRaw string          `mapstructure:"house_edge"`
	HouseEdge    decimal.Decimal `mapstructure:"-"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

var keys = []string{
	"env", "port", "log.level", "log.encoding",
	"store_driver", "redis_url", "redis_pass", "redis_db", "postgres_dsn",
	"jwt_secret", "jwt_expiry", "nonce_ttl", "nonce_sweep_schedule",
	"bet_rate_limit", "house_edge",
}

// Load reads configuration from the environment. LOG_LEVEL maps to
// log.level and so on.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("store_driver", StoreMemory)
	v.SetDefault("redis_url", "localhost:6379")
	v.SetDefault("redis_pass", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_expiry", "168h")
	v.SetDefault("nonce_ttl", "5m")
	v.SetDefault("nonce_sweep_schedule", "@every 1m")
	v.SetDefault("bet_rate_limit", 30)
	v.SetDefault("house_edge", "0.03")

	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %v", k, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values Load cannot default and parses HouseEdgeRaw.
func (c *Config) Validate() error {
	edge, err := decimal.NewFromString(c.HouseEdgeRaw)
	if err != nil {
		return fmt.Errorf("invalid HOUSE_EDGE %q: %v", c.HouseEdgeRaw, err)
	}
	if edge.IsNegative() || edge.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("HOUSE_EDGE must be in [0, 1), got %s", edge)
	}
	c.HouseEdge = edge

	if c.NonceTTL <= 0 {
		return fmt.Errorf("NONCE_TTL must be positive, got %s", c.NonceTTL)
	}

	switch c.StoreDriver {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}

	return nil
}
