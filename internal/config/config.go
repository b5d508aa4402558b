// Package config loads dashboard server configuration from QBQ_-prefixed
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the settings for the serve command.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `envconfig:"ADDR" default:":8080"`
	// RedisAddr enables the shared Redis cache when non-empty; empty falls
	// back to the in-process cache.
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
	// CacheTTL bounds how long a season's normalized-play table is reused.
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"1h"`
	// ReadTimeout / WriteTimeout guard the HTTP server; the first pipeline
	// pass for a season downloads the feed, hence the generous write side.
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"5m"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("QBQ", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}
	return &cfg, nil
}
