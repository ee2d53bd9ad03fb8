package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// screeningCounter is the part of the store the health check reads.
type screeningCounter interface {
	Count(ctx context.Context) (int, error)
}

// HealthHandler reports liveness plus the state of optional collaborators.
type HealthHandler struct {
	Store screeningCounter // Store provides the current screening count
	Redis *redis.Client    // Redis may be nil when caching is disabled
}

// Health is used by load balancers and monitoring systems to verify that the
// service is running.  It always answers 200; a Redis outage only degrades
// caching and rate limiting, so it is reported but not fatal.
func (h *HealthHandler) Health(c echo.Context) error {
	out := echo.Map{"status": "ok", "redis": "disabled"}
	if h.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
		defer cancel()
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			out["redis"] = "down"
		} else {
			out["redis"] = "up"
		}
	}
	if h.Store != nil {
		if n, err := h.Store.Count(c.Request().Context()); err == nil {
			out["screenings"] = n
		}
	}
	return c.JSON(http.StatusOK, out)
}
