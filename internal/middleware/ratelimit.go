package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
)

// takeToken refills the bucket stored at KEYS[1] for the whole intervals
// elapsed since the last refill, then tries to take one token.
// ARGV: now_ms, capacity, refill_tokens, interval_ms, ttl_seconds.
// Returns {allowed (0|1), tokens left, ms until the next refill}.
var takeToken = redis.NewScript(`
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1]) or capacity
local last = tonumber(state[2]) or now_ms

local steps = math.floor(math.max(0, now_ms - last) / interval_ms)
if steps > 0 then
	tokens = math.min(capacity, tokens + steps * refill)
	last = last + steps * interval_ms
end

local allowed, wait_ms = 0, 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	wait_ms = math.max(0, interval_ms - (now_ms - last))
end

redis.call('HSET', KEYS[1], 'tokens', tokens, 'last_refill_ms', last)
redis.call('EXPIRE', KEYS[1], tonumber(ARGV[5]))
return {allowed, tokens, wait_ms}
`)

// bucketDecision is the parsed reply of takeToken.
type bucketDecision struct {
	allowed   bool
	remaining int64
	wait      time.Duration
}

func parseDecision(reply interface{}) (bucketDecision, bool) {
	arr, ok := reply.([]interface{})
	if !ok || len(arr) != 3 {
		return bucketDecision{}, false
	}
	return bucketDecision{
		allowed:   asInt64(arr[0]) == 1,
		remaining: asInt64(arr[1]),
		wait:      time.Duration(asInt64(arr[2])) * time.Millisecond,
	}, true
}

// retryAfter rounds d up to whole seconds for the Retry-After header.
func retryAfter(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// NewTokenBucket returns a Redis token-bucket limiter.  Buckets are shared
// by every API instance pointing at the same Redis.  A disabled limiter or
// a nil client yields a pass-through; Redis failures fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	limit := strconv.Itoa(cfg.Capacity)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := buildRateKey(cfg, c)
			log := logger.FromEcho(c)

			reply, err := takeToken.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Result()
			if err != nil {
				log.Warn("rate limit script failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			d, ok := parseDecision(reply)
			if !ok {
				log.Warn("rate limit script returned unexpected result", zap.String("key", key), zap.Any("result", reply))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if d.allowed {
				return next(c)
			}

			secs := retryAfter(d.wait)
			h.Set("Retry-After", strconv.Itoa(secs))
			if cfg.Debug {
				log.Info("rate limited", zap.String("key", key), zap.Duration("wait", d.wait))
			}
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, retry in "+strconv.Itoa(secs)+"s")
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	}
	return 0
}

// rateKeyParts lists, per RATE_LIMIT_KEY_STRATEGY, which request attributes
// identify a bucket.  Unknown strategies use all three.
var rateKeyParts = map[string][]string{
	"ip":         {"ip"},
	"user":       {"user"},
	"route":      {"route"},
	"ip_user":    {"ip", "user"},
	"ip_route":   {"ip", "route"},
	"user_route": {"user", "route"},
}

func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts, ok := rateKeyParts[strings.ToLower(cfg.KeyStrategy)]
	if !ok {
		parts = []string{"ip", "user", "route"}
	}
	key := []string{cfg.Prefix}
	for _, p := range parts {
		var v string
		switch p {
		case "ip":
			if v = c.RealIP(); v == "" {
				v = "unknown"
			}
		case "user":
			v = userKey(c)
		case "route":
			v = c.Request().Method + " " + c.Path()
		}
		key = append(key, p, v)
	}
	return strings.Join(key, ":")
}
