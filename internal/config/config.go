package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime settings of the chat backend, read from the
// environment (CHATTER_* variables take precedence over the bare names).
type Config struct {
	Addr        string `envconfig:"ADDR" default:":8080"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=localhost user=chatter password=chatter dbname=chatter port=5432 sslmode=disable"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"supersecretkey"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("chatter", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Production reports whether the service runs outside development,
// which controls the Secure flag on the auth cookie.
func (c *Config) Production() bool {
	return c.Environment != "development"
}
