package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of the screening
// endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size, the burst a client may send
	RefillTokens   int           // tokens added every RefillInterval
	RefillInterval time.Duration
	TTL            time.Duration // idle buckets expire after this long
	KeyStrategy    string        // ip, route or ip_route
	Prefix         string
	Debug          bool // log decisions and expose X-RateLimit-Key
}

// LoadRateLimitConfig reads the RATE_LIMIT_* variables.  RATE_LIMIT_BURST
// and RATE_LIMIT_REFILL_EVERY are accepted as shorthands for a capacity and
// a one-token refill period.
func LoadRateLimitConfig() RateLimitConfig {
	env.SetDefault("RATE_LIMIT_ENABLED", true)
	env.SetDefault("RATE_LIMIT_CAPACITY", 60)
	env.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	env.SetDefault("RATE_LIMIT_REFILL_INTERVAL", "1s")
	env.SetDefault("RATE_LIMIT_TTL", "10m")
	env.SetDefault("RATE_LIMIT_KEY_STRATEGY", "ip_route")
	env.SetDefault("RATE_LIMIT_PREFIX", "rl")
	env.SetDefault("RATE_LIMIT_DEBUG", false)

	cfg := RateLimitConfig{
		Enabled:        env.GetBool("RATE_LIMIT_ENABLED"),
		Capacity:       env.GetInt("RATE_LIMIT_CAPACITY"),
		RefillTokens:   env.GetInt("RATE_LIMIT_REFILL_TOKENS"),
		RefillInterval: env.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
		TTL:            env.GetDuration("RATE_LIMIT_TTL"),
		KeyStrategy:    env.GetString("RATE_LIMIT_KEY_STRATEGY"),
		Prefix:         env.GetString("RATE_LIMIT_PREFIX"),
		Debug:          env.GetBool("RATE_LIMIT_DEBUG"),
	}
	if burst := env.GetInt("RATE_LIMIT_BURST"); burst > 0 {
		cfg.Capacity = burst
	}
	if every := env.GetDuration("RATE_LIMIT_REFILL_EVERY"); every > 0 {
		cfg.RefillTokens, cfg.RefillInterval = 1, every
	}

	cfg.Capacity = max(cfg.Capacity, 1)
	cfg.RefillTokens = max(cfg.RefillTokens, 1)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// A bucket must outlive the time it takes to refill from empty.
	cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
	return cfg
}
