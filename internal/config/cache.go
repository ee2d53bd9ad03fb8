package config

import (
	"strings"
	"time"
)

// CacheConfig drives the Redis response cache in front of the screening
// read endpoints.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool // upper-case methods whose 200 responses are cached
	TTL          time.Duration
	KeyStrategy  string // route, route_query, method_route or method_route_query
	Prefix       string // namespace of every cache key, including <Prefix>:gen
	MaxBodyBytes int    // larger responses are served but not cached; 0 means no limit
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	env.SetDefault("CACHE_ENABLED", true)
	env.SetDefault("CACHE_METHODS", "GET")
	env.SetDefault("CACHE_TTL", "30s")
	env.SetDefault("CACHE_KEY_STRATEGY", "route_query")
	env.SetDefault("CACHE_PREFIX", "cache")
	env.SetDefault("CACHE_MAX_BODY_BYTES", 1<<20)

	cfg := CacheConfig{
		Enabled:      env.GetBool("CACHE_ENABLED"),
		Methods:      parseMethods(env.GetString("CACHE_METHODS")),
		TTL:          env.GetDuration("CACHE_TTL"),
		KeyStrategy:  strings.ToLower(env.GetString("CACHE_KEY_STRATEGY")),
		Prefix:       env.GetString("CACHE_PREFIX"),
		MaxBodyBytes: env.GetInt("CACHE_MAX_BODY_BYTES"),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Second
	}
	return cfg
}

// parseMethods turns "get, head" into {"GET": true, "HEAD": true}.
func parseMethods(s string) map[string]bool {
	out := make(map[string]bool)
	for _, m := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		out[strings.ToUpper(m)] = true
	}
	return out
}
