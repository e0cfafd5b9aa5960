package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.CacheTTLSec != 300 {
		t.Errorf("CacheTTLSec = %d, want 300", cfg.CacheTTLSec)
	}
	if cfg.CacheKeyPrefix != "api" {
		t.Errorf("CacheKeyPrefix = %q, want api", cfg.CacheKeyPrefix)
	}
	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		t.Errorf("Redis target defaults should be empty, got url=%q host=%q", cfg.RedisURL, cfg.RedisHost)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APICACHE_PORT", "9090")
	t.Setenv("APICACHE_REDIS_URL", "redis://localhost:6380/2")
	t.Setenv("APICACHE_CACHE_TTL_SEC", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.RedisURL != "redis://localhost:6380/2" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL())
	}
}

func TestLoad_RejectsZeroTimeout(t *testing.T) {
	t.Setenv("APICACHE_REDIS_TIMEOUT_SEC", "0")

	if _, err := Load(); err == nil {
		t.Error("Load must reject a zero redis timeout")
	}
}

func TestStoreConfig_Mapping(t *testing.T) {
	t.Setenv("APICACHE_REDIS_HOST", "cache.internal")
	t.Setenv("APICACHE_REDIS_PORT", "6380")
	t.Setenv("APICACHE_REDIS_PASSWORD", "hunter2")
	t.Setenv("APICACHE_REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sc := cfg.StoreConfig()
	if sc.Host != "cache.internal" {
		t.Errorf("Host = %q", sc.Host)
	}
	if sc.Port != 6380 {
		t.Errorf("Port = %d", sc.Port)
	}
	if sc.Password != "hunter2" {
		t.Errorf("Password = %q", sc.Password)
	}
	if sc.DB != 3 {
		t.Errorf("DB = %d", sc.DB)
	}
	if sc.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v, want 2s", sc.Timeout)
	}
}
