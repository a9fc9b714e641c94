// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/AccelByte/extend-countdown-challenge/pkg/countdown"
)

// Store backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8000"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"CountdownChallengeService"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// State store configuration
	// ============================================================
	StoreBackend string `env:"STORE_BACKEND" envDefault:"redis"`
	StateKey     string `env:"STATE_KEY" envDefault:"countdownState"`

	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"countdown.db"`

	// ============================================================
	// Challenge configuration
	// ============================================================
	ConfigPath      string        `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`
	TotalDays       int           `env:"CHALLENGE_TOTAL_DAYS" envDefault:"693"`
	TotalWeeks      int           `env:"CHALLENGE_TOTAL_WEEKS" envDefault:"99"`
	TotalScore      int           `env:"CHALLENGE_TOTAL_SCORE" envDefault:"149"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1m"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ZipkinEndpoint string `env:"ZIPKIN_ENDPOINT"`
}

// RedisAddr returns host:port of the Redis server.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// RedisRetryDelay returns the initial Redis connect backoff.
func (c *Config) RedisRetryDelay() time.Duration {
	return time.Duration(c.RedisRetryDelayMs) * time.Millisecond
}

// Definition returns the configured challenge constants.
func (c *Config) Definition() countdown.Definition {
	return countdown.Definition{
		TotalDays:  c.TotalDays,
		TotalWeeks: c.TotalWeeks,
		TotalScore: c.TotalScore,
	}
}
