// Package config loads server configuration from a yaml file and
// APICACHE_* environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/campuskit/apicache/pkg/cache"
)

// Config holds the cache server configuration.
type Config struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	// Redis connection. redis_url takes precedence; with neither URL
	// nor host set, caching is disabled and the server runs uncached.
	RedisURL      string `mapstructure:"redis_url"`
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     int    `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`

	// RedisTimeoutSec bounds every store operation. Required to be > 0
	// so a slow cache can never hang a request.
	RedisTimeoutSec int `mapstructure:"redis_timeout_sec"`

	CacheTTLSec    int    `mapstructure:"cache_ttl_sec"`
	CacheKeyPrefix string `mapstructure:"cache_key_prefix"`

	RateLimitMax       int `mapstructure:"rate_limit_max"`
	RateLimitWindowSec int `mapstructure:"rate_limit_window_sec"`
}

// Load reads configuration from ./config.yaml (optional) and the
// environment.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("port", 8080)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("redis_url", "")
	viper.SetDefault("redis_host", "")
	viper.SetDefault("redis_port", 6379)
	viper.SetDefault("redis_password", "")
	viper.SetDefault("redis_db", 0)
	viper.SetDefault("redis_timeout_sec", 2)
	viper.SetDefault("cache_ttl_sec", 300)
	viper.SetDefault("cache_key_prefix", "api")
	viper.SetDefault("rate_limit_max", 100)
	viper.SetDefault("rate_limit_window_sec", 60)

	viper.SetEnvPrefix("APICACHE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file; defaults and env vars apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.RedisTimeoutSec <= 0 {
		return nil, fmt.Errorf("redis_timeout_sec must be > 0 (got %d)", cfg.RedisTimeoutSec)
	}

	return &cfg, nil
}

// StoreConfig maps the Redis settings into the cache layer's form.
func (c *Config) StoreConfig() cache.StoreConfig {
	return cache.StoreConfig{
		URL:      c.RedisURL,
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
		Timeout:  time.Duration(c.RedisTimeoutSec) * time.Second,
	}
}

// CacheTTL returns the configured response TTL.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// RateLimitWindow returns the configured limiter window.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSec) * time.Second
}
