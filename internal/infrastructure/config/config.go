package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds every runtime knob, populated from the environment.
type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	DBURL    string `env:"DB_URL,required"`
	RedisURL string `env:"REDIS_URL,required"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	UploadPath    string `env:"UPLOAD_PATH" envDefault:"./uploads"`
	UploadBaseURL string `env:"UPLOAD_BASE_URL" envDefault:"/uploads"`

	QueueConcurrency int `env:"QUEUE_CONCURRENCY" envDefault:"10"`

	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"300"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST" envDefault:"50"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}
