package config

import (
	"testing"
	"time"
)

func TestLoadContentCacheConfig(t *testing.T) {
	t.Setenv("CONTENT_CACHE_BACKEND", "Redis")
	t.Setenv("CONTENT_TTL", "")
	t.Setenv("CONTENT_TTL_TIER_RULE", "5m")
	t.Setenv("CONTENT_TTL_EVENT", "garbage")

	cfg := LoadContentCacheConfig()
	if cfg.Backend != "redis" {
		t.Fatalf("expected backend redis, got %q", cfg.Backend)
	}
	if cfg.TTL != 60*time.Second {
		t.Fatalf("expected default ttl 60s, got %s", cfg.TTL)
	}
	if cfg.TypeTTLs["tier_rule"] != 5*time.Minute {
		t.Fatalf("expected tier_rule override, got %v", cfg.TypeTTLs)
	}
	if _, ok := cfg.TypeTTLs["event"]; ok {
		t.Fatalf("unparseable override must be ignored")
	}
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Fatalf("expected capacity clamped to 1, got %d", cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("expected ttl raised to 5 intervals, got %s", cfg.TTL)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("X_FLAG", "off")
	if envBool("X_FLAG", true) {
		t.Fatalf("off should parse as false")
	}
	t.Setenv("X_FLAG", "maybe")
	if !envBool("X_FLAG", true) {
		t.Fatalf("unknown value should fall back to default")
	}
}
