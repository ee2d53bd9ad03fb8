package config

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// redisOptions resolves the client options.  REDIS_HOST and REDIS_PORT
// together win over REDIS_ADDR; with neither set the local default is used.
func redisOptions() *redis.Options {
	env.SetDefault("REDIS_ADDR", "localhost:6379")
	env.SetDefault("REDIS_DB", 0)
	env.SetDefault("REDIS_TLS", false)

	addr := env.GetString("REDIS_ADDR")
	if host, port := env.GetString("REDIS_HOST"), env.GetString("REDIS_PORT"); host != "" && port != "" {
		addr = net.JoinHostPort(host, port)
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: env.GetString("REDIS_PASSWORD"),
		DB:       env.GetInt("REDIS_DB"),
	}
	if env.GetBool("REDIS_TLS") {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opts
}

// NewRedisClient connects to the Redis instance backing the response cache
// and the rate limiter.  It returns nil when REDIS_ENABLED is false or the
// server does not answer a ping within two seconds; both middlewares then
// pass requests straight through.
func NewRedisClient(logger logrus.FieldLogger) *redis.Client {
	env.SetDefault("REDIS_ENABLED", true)
	if !env.GetBool("REDIS_ENABLED") {
		logger.Info("redis disabled; caching and rate limiting are off")
		return nil
	}

	opts := redisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", opts.Addr).Warn("redis unreachable; caching and rate limiting are off")
		_ = client.Close()
		return nil
	}
	logger.WithField("addr", opts.Addr).Info("redis connected")
	return client
}
