// Package router registers the HTTP routes and shared middleware of the API.
package router

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-screening-booking/internal/handler"
	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
)

// Configure installs the validator, the problem-rendering error handler and
// the middleware every route shares: request ids, panic recovery and
// request logging.
func Configure(e *echo.Echo, logger logrus.FieldLogger) {
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
}

// RegisterRoutes registers operational routes that sit outside the API
// prefix.  At the moment it only exposes a health check endpoint.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterCinema registers the screening endpoints under /api/cinema.  The
// given middleware (rate limiting, response caching) wraps only these routes.
func RegisterCinema(e *echo.Echo, h *handler.CinemaHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/cinema", mw...)

	g.GET("", h.ListScreenings)
	g.POST("", h.CreateScreening)
	g.DELETE("", h.ClearScreenings)

	g.GET("/:id", h.GetScreening)
	g.PUT("/:id", h.UpdateStartTime)
	g.POST("/:id/reserve", h.ReserveSeats)
}
