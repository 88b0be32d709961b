package config

import (
	"strings"
	"time"
)

// ContentCacheConfig controls the read-through cache in front of the
// content source.  TTL applies to every content type unless TypeTTLs has an
// override, read from CONTENT_TTL_<TYPE> (e.g. CONTENT_TTL_TIER_RULE=5m).
type ContentCacheConfig struct {
	Backend  string // memory or redis
	TTL      time.Duration
	TypeTTLs map[string]time.Duration
	Prefix   string
}

var contentTypes = []string{"event", "banner", "global_config", "tier_rule", "recommendation_rule"}

func LoadContentCacheConfig() ContentCacheConfig {
	cfg := ContentCacheConfig{
		Backend:  strings.ToLower(envStr("CONTENT_CACHE_BACKEND", "memory")),
		TTL:      envDur("CONTENT_TTL", 60*time.Second),
		TypeTTLs: map[string]time.Duration{},
		Prefix:   envStr("CONTENT_CACHE_PREFIX", "content"),
	}
	for _, t := range contentTypes {
		if d := envDur("CONTENT_TTL_"+strings.ToUpper(t), 0); d > 0 {
			cfg.TypeTTLs[t] = d
		}
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 60 * time.Second
	}
	return cfg
}
