package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/ecommerce-backend/internal/config"
	"github.com/iliyamo/ecommerce-backend/internal/logger"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size < cw.limit {
		remain := cw.limit - cw.size
		if cw.limit <= 0 {
			cw.buf.Write(b)
		} else if remain > 0 {
			if int64(len(b)) <= remain {
				cw.buf.Write(b)
			} else {
				cw.buf.Write(b[:remain])
			}
		}
		cw.size += int64(len(b))
	}
	return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds "<prefix>:<gen>:<sha1>".  gen is the generation
// current when the request started; Purge moves it forward, so entries of
// older generations are never read again and simply expire.  c.Path() is
// the route template; the concrete path is added so /products/1 and
// /products/2 do not collide.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context, gen int64) string {
	r := c.Request()
	parts := []string{"route", c.Path(), "path", r.URL.Path}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
	case "method_route":
		parts = append(parts, "method", r.Method)
	case "method_route_query":
		parts = append(parts, "method", r.Method, "q", r.URL.RawQuery)
	default: // "route_query"
		parts = append(parts, "q", r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%d:%x", cfg.Prefix, gen, sum[:])
}

// generationKey holds the counter Purge increments.
func generationKey(cfg config.CacheConfig) string { return cfg.Prefix + ":gen" }

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	var hdr http.Header
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
			return 0, nil, nil, false
		}
	} else {
		hdr = make(http.Header)
	}
	return status, hdr, bs[8+hlen:], true
}

// Cache is the Redis-backed catalog response cache.  Reads go through
// Middleware; product, tag and review writes call Purge after they commit,
// so no response read before the commit is served once Purge returns.  A
// Cache with a nil client, or one built from a disabled config, passes
// everything through.
type Cache struct {
	cfg config.CacheConfig
	rdb *redis.Client
}

func NewCache(cfg config.CacheConfig, rdb *redis.Client) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	return &Cache{cfg: cfg, rdb: rdb}
}

func (rc *Cache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// Middleware stores headers + body so clients see identical formatting on a
// hit.  Only 200 responses are stored.
func (rc *Cache) Middleware() echo.MiddlewareFunc {
	if !rc.enabled() {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	cfg, rdb := rc.cfg, rc.rdb
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}

			ctx := c.Request().Context()
			// read the generation before the handler touches the database;
			// a purge that lands in between retires whatever is stored below
			gen, err := rdb.Get(ctx, generationKey(cfg)).Int64()
			if err != nil && err != redis.Nil {
				logger.FromEcho(c).Warn("cache generation read failed", zap.Error(err))
				return next(c)
			}
			key := cacheKeyFrom(cfg, c, gen)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						// Content-Length is recomputed; X-Cache is set below
						if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Cache") {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					if len(body) > 0 {
						_, _ = c.Response().Write(body)
					}
					return nil
				}
			} else if err != redis.Nil {
				logger.FromEcho(c).Warn("cache read failed", zap.String("key", key), zap.Error(err))
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// a truncated body would be served as a corrupt hit
			if cw.status != http.StatusOK || (maxBody > 0 && cw.size > maxBody) {
				return nil
			}
			hdr := make(http.Header, len(c.Response().Header()))
			for k, vals := range c.Response().Header() {
				hdr[k] = append([]string(nil), vals...)
			}
			if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
				if err := rdb.SetEx(context.Background(), key, payload, cfg.TTL).Err(); err != nil {
					logger.FromEcho(c).Warn("cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
			return nil
		}
	}
}

// Purge retires every cached catalog response by moving the generation
// forward.  Retired entries expire with their TTL.
func (rc *Cache) Purge(ctx context.Context) error {
	if !rc.enabled() {
		return nil
	}
	if err := rc.rdb.Incr(ctx, generationKey(rc.cfg)).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	return nil
}
