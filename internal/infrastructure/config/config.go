package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// SeedDemo creates the demo accounts and stores on startup when set.
	SeedDemo bool `env:"SEED_DEMO, default=false"`

	Auth      AuthConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Dashboard DashboardConfig
}

type AuthConfig struct {
	// JWTSecret signs session tokens. There is no fallback value.
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=168h"`
	BcryptCost int           `env:"BCRYPT_COST, default=12"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,            default=store_rating"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,       default=10s"`
	MaxPoolSize uint64        `env:"MONGO_MAX_POOL_SIZE, default=100"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
}

type DashboardConfig struct {
	// CacheTTL bounds how stale the admin dashboard may be. Zero disables
	// the Redis cache.
	CacheTTL time.Duration `env:"DASHBOARD_CACHE_TTL, default=15s"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Dashboard.CacheTTL < 0 {
		return nil, fmt.Errorf("config: DASHBOARD_CACHE_TTL must not be negative")
	}
	if cfg.Mongo.Timeout <= 0 || cfg.Redis.Timeout <= 0 {
		return nil, fmt.Errorf("config: MONGO_TIMEOUT and REDIS_TIMEOUT must be positive")
	}
	return &cfg, nil
}
