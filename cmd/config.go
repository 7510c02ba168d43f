package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"brokerage/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	ListenerMinReconnect time.Duration
	ListenerMaxReconnect time.Duration
	ListenerPingSchedule string

	RetryAttempts int

	LogLevel       string
	EchoLogLevel   string
	ServiceName    string
	Environment    string
	TracingEnabled bool
}

// LookupFunc reads one configuration key.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv loads the variables of path into the process environment. A missing
// file is not an error; variables already set in the environment win.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadConfig builds the configuration from lookup, applying defaults for unset keys.
func LoadConfig(lookup LookupFunc) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		HTTPPort:             get("HTTP_PORT", "8080"),
		DBHost:               get("DB_HOST", "localhost"),
		DBPort:               get("DB_PORT", "5432"),
		DBUser:               get("DB_USER", "postgres"),
		DBPassword:           get("DB_PASSWORD", ""),
		DBName:               get("DB_NAME", "orders"),
		DBSslMode:            get("DB_SSLMODE", "disable"),
		ListenerPingSchedule: get("LISTENER_PING_SCHEDULE", "*/30 * * * * *"),
		LogLevel:             get("LOG_LEVEL", "info"),
		EchoLogLevel:         get("ECHO_LOG_LEVEL", "warn"),
		ServiceName:          get("SERVICE_NAME", "order-desk"),
		Environment:          get("ENVIRONMENT", "local"),
	}

	var err error
	if cfg.ListenerMinReconnect, err = time.ParseDuration(get("LISTENER_MIN_RECONNECT", "10s")); err != nil {
		return Config{}, fmt.Errorf("LISTENER_MIN_RECONNECT: %w", err)
	}
	if cfg.ListenerMaxReconnect, err = time.ParseDuration(get("LISTENER_MAX_RECONNECT", "1m")); err != nil {
		return Config{}, fmt.Errorf("LISTENER_MAX_RECONNECT: %w", err)
	}
	if cfg.ListenerMaxReconnect < cfg.ListenerMinReconnect {
		return Config{}, fmt.Errorf("LISTENER_MAX_RECONNECT %s is below LISTENER_MIN_RECONNECT %s",
			cfg.ListenerMaxReconnect, cfg.ListenerMinReconnect)
	}
	if cfg.RetryAttempts, err = strconv.Atoi(get("RETRY_ATTEMPTS", "3")); err != nil || cfg.RetryAttempts < 1 {
		return Config{}, fmt.Errorf("RETRY_ATTEMPTS must be a positive integer, got %q", get("RETRY_ATTEMPTS", "3"))
	}
	if cfg.TracingEnabled, err = strconv.ParseBool(get("OTEL_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("OTEL_ENABLED: %w", err)
	}

	return cfg, nil
}

func (c Config) DSN() string {
	return postgres.ConnConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}.DSN()
}
