package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-screening-booking/internal/config"
)

// cachedResponse is what a cache entry holds.  Body is base64 in JSON.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// recorder tees the response into a buffer while it is written to the
// client.  Once more than limit bytes went through, the copy is abandoned.
type recorder struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	limit    int64
	overflow bool
}

func (r *recorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && int64(r.body.Len()+len(b)) > r.limit {
			r.overflow = true
			r.body.Reset()
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// generationKey holds a counter bumped by every successful write.  It is part
// of every cache key, so a bump orphans all cached reads at once and they
// expire through their TTL.
func generationKey(ns string) string { return ns + ":gen" }

// cacheNamespace scopes keys to one middleware instance.  Screenings live in
// process memory, so a restarted or second server must never replay
// responses rendered from another store.
func cacheNamespace(prefix string) string { return prefix + ":" + uuid.NewString() }

// cacheKey hashes the request parts selected by strategy under the current
// generation.
func cacheKey(ns, strategy string, c echo.Context, gen int64) string {
	r := c.Request()
	parts := []string{"route", c.Path(), "uri", r.URL.Path}
	switch strings.ToLower(strategy) {
	case "route":
	case "method_route":
		parts = append([]string{"method", r.Method}, parts...)
	case "method_route_query":
		parts = append([]string{"method", r.Method}, parts...)
		parts = append(parts, "q", r.URL.RawQuery)
	default: // route_query
		parts = append(parts, "q", r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	return fmt.Sprintf("%s:%d:%x", ns, gen, sum)
}

// replay writes a cached response.  Content-Length is left to net/http and
// X-Cache is replaced.
func replay(c echo.Context, cr cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range cr.Header {
		if k == echo.HeaderContentLength || k == "X-Cache" {
			continue
		}
		h[k] = append([]string(nil), vals...)
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(cr.Status)
	if len(cr.Body) == 0 {
		return nil
	}
	_, err := c.Response().Write(cr.Body)
	return err
}

// NewRedisCache caches 200 responses of the configured methods (GET by
// default) in Redis together with their headers, so hits are byte-identical.
// Any other request that completes with a 2xx status bumps the cache
// generation, so a reservation or date change is visible on the next read.
// Keys live under <Prefix>:<boot id>, so entries are never shared between
// server instances.  A nil client or a disabled config yields a pass-through
// middleware; Redis errors never fail a request.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, logger logrus.FieldLogger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	ns := cacheNamespace(cfg.Prefix)
	genKey := generationKey(ns)

	invalidate := func(next echo.HandlerFunc, c echo.Context) error {
		if err := next(c); err != nil {
			return err
		}
		if s := c.Response().Status; s >= 200 && s < 300 {
			// The request context may already be cancelled by the client.
			// The counter outlives every entry stored under an older
			// generation, so letting it expire cannot resurrect one.
			pipe := rdb.TxPipeline()
			pipe.Incr(context.Background(), genKey)
			pipe.Expire(context.Background(), genKey, 2*ttl)
			if _, err := pipe.Exec(context.Background()); err != nil {
				logger.WithError(err).Warn("cache: failed to bump generation")
			}
		}
		return nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return invalidate(next, c)
			}
			ctx := c.Request().Context()

			gen, err := rdb.Get(ctx, genKey).Int64()
			if err != nil && !errors.Is(err, redis.Nil) {
				logger.WithError(err).Debug("cache: generation lookup failed, bypassing")
				return next(c)
			}
			key := cacheKey(ns, cfg.KeyStrategy, c, gen)

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(raw, &cr) == nil && cr.Status != 0 {
					return replay(c, cr)
				}
			}

			rec := &recorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}

			payload, err := json.Marshal(cachedResponse{
				Status: rec.status,
				Header: c.Response().Header().Clone(),
				Body:   rec.body.Bytes(),
			})
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
				logger.WithError(err).Debug("cache: store failed")
			}
			return nil
		}
	}
}
