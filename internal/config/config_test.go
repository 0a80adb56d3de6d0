package config_test

import (
	"testing"
	"time"

	"chatguard-lab/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "chatguard-lab" {
		t.Errorf("app name = %q", cfg.App.Name)
	}
	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("http port = %d, want 8080", cfg.Server.HTTPPort)
	}
	if cfg.Analysis.MaxBatchSize != 500 {
		t.Errorf("max batch size = %d, want 500", cfg.Analysis.MaxBatchSize)
	}
	if cfg.Analysis.ResultCacheTTL != 10*time.Minute {
		t.Errorf("result cache ttl = %v, want 10m", cfg.Analysis.ResultCacheTTL)
	}
	if cfg.Narrative.Enabled {
		t.Error("narrative must be disabled by default")
	}
	if cfg.RateLimit.RequestsPerMinute != 120 {
		t.Errorf("requests per minute = %d, want 120", cfg.RateLimit.RequestsPerMinute)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CHATGUARD_AUTH_API_KEY", "test-key")
	t.Setenv("CHATGUARD_REDIS_HOST", "cache.internal")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("api key = %q, want test-key", cfg.Auth.APIKey)
	}
	if cfg.Redis.Host != "cache.internal" {
		t.Errorf("redis host = %q, want cache.internal", cfg.Redis.Host)
	}
}

func TestRedisAddr(t *testing.T) {
	cfg := config.RedisConfig{Host: "cache.local", Port: 6380}
	if got := cfg.Addr(); got != "cache.local:6380" {
		t.Errorf("Addr() = %q, want cache.local:6380", got)
	}
}
