package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/cinema-screening-booking/internal/config"
	"github.com/iliyamo/cinema-screening-booking/internal/handler"
	"github.com/iliyamo/cinema-screening-booking/internal/middleware"
	"github.com/iliyamo/cinema-screening-booking/internal/queue"
	"github.com/iliyamo/cinema-screening-booking/internal/repository"
	"github.com/iliyamo/cinema-screening-booking/internal/router"
	"github.com/iliyamo/cinema-screening-booking/internal/service"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logrus.WithError(err).Fatal("failed to load .env")
	}
	cfg := config.Load()
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(logger)
	if rdb != nil {
		defer rdb.Close()
	}

	store := repository.NewScreeningRepo()
	opts := []service.Option{service.WithLogger(logger)}
	if cfg.EventsEnabled {
		opts = append(opts, service.WithPublisher(queue.NewPublisher(cfg.AMQPURL, logger)))
	}
	booking := service.NewBookingService(store, opts...)

	var workers sync.WaitGroup
	if cfg.ConsumerEnabled {
		startConsumer(ctx, &workers, queue.NewConsumer(cfg.AMQPURL, cfg.BookingLogDir, logger), logger)
	}

	e := echo.New()
	router.Configure(e, logger)
	router.RegisterRoutes(e, &handler.HealthHandler{Store: store, Redis: rdb})
	router.RegisterCinema(e, handler.NewCinemaHandler(booking),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, logger),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb, logger),
	)

	addr := ":" + cfg.Port
	go func() {
		logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	// The consumer finishes the message it is writing before Run returns.
	workers.Wait()
	logger.Info("stopped")
}

type runner interface {
	Run(ctx context.Context) error
}

// startConsumer runs c until ctx is done and tracks it in wg, so shutdown can
// wait for a booking.log write in progress.
func startConsumer(ctx context.Context, wg *sync.WaitGroup, c runner, logger logrus.FieldLogger) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("booking consumer stopped")
		}
	}()
}
