// Package config loads application configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// env resolves every setting.  Keys are looked up in the process
// environment at read time, so values loaded from .env files are seen as
// long as LoadDotEnv runs first.
var env = newEnv()

func newEnv() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	return v
}

// Config holds the runtime configuration of the HTTP server and its
// optional collaborators.
type Config struct {
	Env             string        // application environment (dev, test, prod)
	Port            string        // HTTP port to listen on
	LogLevel        string        // logrus level name
	LogFormat       string        // "text" or "json"
	ShutdownTimeout time.Duration // grace period for in-flight requests on shutdown
	EventsEnabled   bool          // publish reservation events to RabbitMQ
	ConsumerEnabled bool          // run the booking log consumer in-process
	AMQPURL         string        // broker URL (RABBITMQ_URL, then AMQP_URL)
	BookingLogDir   string        // directory the consumer writes booking.log into
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) without overriding variables already set.  Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Load reads the server configuration.  Every key has a default, so an
// empty environment yields a working development setup.
func Load() Config {
	env.SetDefault("APP_ENV", "dev")
	env.SetDefault("APP_PORT", "8080")
	env.SetDefault("LOG_LEVEL", "info")
	env.SetDefault("LOG_FORMAT", "text")
	env.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	env.SetDefault("EVENTS_ENABLED", false)
	env.SetDefault("BOOKING_CONSUMER_ENABLED", false)
	env.SetDefault("BOOKING_LOG_DIR", "logs")

	amqpURL := env.GetString("RABBITMQ_URL")
	if amqpURL == "" {
		amqpURL = env.GetString("AMQP_URL")
	}

	timeout := env.GetDuration("SHUTDOWN_TIMEOUT")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return Config{
		Env:             env.GetString("APP_ENV"),
		Port:            env.GetString("APP_PORT"),
		LogLevel:        env.GetString("LOG_LEVEL"),
		LogFormat:       strings.ToLower(env.GetString("LOG_FORMAT")),
		ShutdownTimeout: timeout,
		EventsEnabled:   env.GetBool("EVENTS_ENABLED"),
		ConsumerEnabled: env.GetBool("BOOKING_CONSUMER_ENABLED"),
		AMQPURL:         amqpURL,
		BookingLogDir:   env.GetString("BOOKING_LOG_DIR"),
	}
}
