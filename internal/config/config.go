package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port          string `envconfig:"PORT" default:"8080"`
	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN" default:"http://127.0.0.1:3000"`

	// UpstreamBaseURL points at the ERP API. When empty the gateway runs
	// against the seeded in-memory backend (dev/demo mode).
	UpstreamBaseURL string        `envconfig:"UPSTREAM_BASE_URL"`
	UpstreamTimeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// AuthSecret verifies the bearer tokens the upstream issues. The gateway
	// never signs tokens of its own.
	AuthSecret string `envconfig:"AUTH_SECRET"`

	SnapshotTTL        time.Duration `envconfig:"SNAPSHOT_TTL" default:"30s"`
	FastForwardDelay   time.Duration `envconfig:"FAST_FORWARD_DELAY" default:"400ms"`
	ScannerResumeDelay time.Duration `envconfig:"SCANNER_RESUME_DELAY" default:"1500ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if len(cfg.AuthSecret) < 32 {
		return Config{}, fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return cfg, nil
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}
