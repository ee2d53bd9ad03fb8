package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT", "SHUTDOWN_TIMEOUT",
		"EVENTS_ENABLED", "BOOKING_CONSUMER_ENABLED", "BOOKING_LOG_DIR", "RABBITMQ_URL", "AMQP_URL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg := Load()
	assert.Equal(t, Config{
		Env:             "dev",
		Port:            "8080",
		LogLevel:        "info",
		LogFormat:       "text",
		ShutdownTimeout: 10 * time.Second,
		BookingLogDir:   "logs",
	}, cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("BOOKING_CONSUMER_ENABLED", "1")
	t.Setenv("BOOKING_LOG_DIR", "/var/log/cinema")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	cfg := Load()
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.EventsEnabled)
	assert.True(t, cfg.ConsumerEnabled)
	assert.Equal(t, "/var/log/cinema", cfg.BookingLogDir)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.AMQPURL)

	t.Setenv("RABBITMQ_URL", "amqp://rabbit/")
	assert.Equal(t, "amqp://rabbit/", Load().AMQPURL)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("CINEMA_DOTENV_PROBE=from-file\nAPP_PORT=7070\n"), 0o600))

	t.Setenv("APP_PORT", "8081")
	t.Setenv("CINEMA_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("CINEMA_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(file, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("CINEMA_DOTENV_PROBE"))
	assert.Equal(t, "8081", Load().Port, "existing variables win over the file")
}

func TestNewLogger(t *testing.T) {
	l := Config{LogLevel: "warn", LogFormat: "json"}.NewLogger()
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = Config{LogLevel: "loud"}.NewLogger()
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("CACHE_PREFIX", "screenings")

	cfg := LoadCacheConfig()
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, 2*time.Minute, cfg.TTL)
	assert.Equal(t, "screenings", cfg.Prefix)
	assert.Equal(t, "route_query", cfg.KeyStrategy)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "5")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "ttl is raised to five refill intervals")
	assert.Equal(t, "ip_route", cfg.KeyStrategy)

	t.Setenv("RATE_LIMIT_BURST", "9")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")
	cfg = LoadRateLimitConfig()
	assert.Equal(t, 9, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 500*time.Millisecond, cfg.RefillInterval)
}

func TestNewRedisClient_Disabled(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "false")
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	assert.Nil(t, NewRedisClient(logger))
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	assert.Equal(t, "cache:6380", redisOptions().Addr)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("REDIS_TLS", "true")
	opts := redisOptions()
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.NotNil(t, opts.TLSConfig)
}
