package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	APIBaseURL string
	APITimeout time.Duration

	RedisAddr     string
	RedisPassword string
	KafkaBrokers  []string

	HTTPPort        int
	JWTSecret       string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. Unset keys take their
// defaults; malformed numeric values are reported rather than replaced.
func Load() (Config, error) {
	var errs []error
	intVar := func(key string, def int) int {
		n, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err)
		}
		return n
	}

	cfg := Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080/api/"),
		APITimeout:      time.Duration(intVar("API_TIMEOUT_SECONDS", 10)) * time.Second,
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnvList("KAFKA_BROKERS"),
		HTTPPort:        intVar("HTTP_PORT", 8080),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		ShutdownTimeout: time.Duration(intVar("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
	if cfg.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT: %d out of range", cfg.HTTPPort))
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// RedisEnabled reports whether a Redis address was configured.
func (c Config) RedisEnabled() bool { return c.RedisAddr != "" }

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def, fmt.Errorf("%s: %q is not a positive integer", key, v)
	}
	return n, nil
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
