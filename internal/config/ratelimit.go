package config

import "time"

// RateLimitConfig configures the Redis token bucket placed in front of the
// credential endpoints (login and register).
type RateLimitConfig struct {
	Enabled        bool          // RATE_LIMIT_ENABLED
	Capacity       int           // bucket size, also the burst
	RefillTokens   int           // tokens added per RefillInterval
	RefillInterval time.Duration // must be positive
	TTL            time.Duration // idle buckets expire after this
	KeyStrategy    string        // ip, user, route or a pair such as ip_route
	Prefix         string        // Redis key namespace
	Debug          bool          // expose the bucket key and log rejections
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables.  RATE_LIMIT_BURST and
// RATE_LIMIT_REFILL_EVERY are shorthands that override capacity and refill
// rate.  Values are clamped so the bucket always refills and outlives at
// least five refill intervals.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 10),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	if burst := envInt("RATE_LIMIT_BURST", 0); burst > 0 {
		cfg.Capacity = burst
	}
	if every := envDur("RATE_LIMIT_REFILL_EVERY", 0); every > 0 {
		cfg.RefillTokens, cfg.RefillInterval = 1, every
	}

	cfg.Capacity = max(cfg.Capacity, 1)
	cfg.RefillTokens = max(cfg.RefillTokens, 1)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
	return cfg
}
