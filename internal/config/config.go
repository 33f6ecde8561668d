// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns defaults; Load layers a YAML file and env vars on top.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Cache backends accepted by CacheBackend.
const (
	CacheNone  = "none"
	CacheRedis = "redis"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// RequestLog enables a debug-level access log line per request.
	RequestLog bool `koanf:"request_log"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// GameID is the play-by-play game served by every query.
	GameID string `koanf:"game_id"`

	// FeedURLTemplate is the upstream feed URL with a single %s for the game id.
	FeedURLTemplate string `koanf:"feed_url_template"`

	// FeedTimeoutMS bounds a single upstream fetch.
	FeedTimeoutMS int `koanf:"feed_timeout_ms"`

	// CacheBackend is "none" or "redis".
	CacheBackend string `koanf:"cache_backend"`

	// RedisURL is used when CacheBackend is "redis", e.g. redis://localhost:6379/0.
	RedisURL string `koanf:"redis_url"`

	// CacheTTLSeconds is how long a fetched feed stays in the cache.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		GameID:          "0022000180",
		FeedURLTemplate: "https://cdn.nba.com/static/json/liveData/playbyplay/playbyplay_%s.json",
		FeedTimeoutMS:   10_000,
		CacheBackend:    CacheNone,
		RedisURL:        "redis://localhost:6379/0",
		CacheTTLSeconds: 30,
	}
}

// FeedTimeout returns FeedTimeoutMS as a duration.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.FeedTimeoutMS) * time.Millisecond
}

// CacheTTL returns CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.GameID) == "":
		return fmt.Errorf("%w: game_id must not be empty", ErrInvalidConfig)
	case strings.Count(c.FeedURLTemplate, "%s") != 1:
		return fmt.Errorf("%w: feed_url_template must contain exactly one %%s", ErrInvalidConfig)
	case c.FeedTimeoutMS <= 0:
		return fmt.Errorf("%w: feed_timeout_ms must be positive", ErrInvalidConfig)
	}

	switch c.CacheBackend {
	case CacheNone:
	case CacheRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("%w: redis_url is required for the redis cache", ErrInvalidConfig)
		}
		if c.CacheTTLSeconds <= 0 {
			return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache_backend %q", ErrInvalidConfig, c.CacheBackend)
	}
	return nil
}
