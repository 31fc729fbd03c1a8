package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// LoginEventWorkers sizes the login-history dispatcher pool.
	LoginEventWorkers int `env:"LOGIN_EVENT_WORKERS, default=4"`

	Mongo    MongoConfig
	Redis    RedisConfig
	Identity IdentityConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=library_auth"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type IdentityConfig struct {
	// APIKey is the identity toolkit web API key.
	APIKey string `env:"IDENTITY_API_KEY"`
	// BaseURL overrides the production identity toolkit endpoint; used to
	// point at an emulator in development.
	BaseURL string `env:"IDENTITY_BASE_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
