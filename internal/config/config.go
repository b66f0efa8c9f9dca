// Copyright 2026 The OpenLMS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration, populated from environment
// variables (with a best-effort .env load for local development).
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Redis         RedisConfig
	Email         EmailConfig
	Isolation     IsolationConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
	Bootstrap     BootstrapConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port         string        `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host         string `env:"DB_HOST" envDefault:"localhost"`
	Port         string `env:"DB_PORT" envDefault:"5432"`
	User         string `env:"DB_USER" envDefault:"openlms"`
	Password     string `env:"DB_PASSWORD,required,notEmpty"`
	Database     string `env:"DB_NAME" envDefault:"openlms"`
	SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
}

// AuthConfig holds token and password-hashing configuration.
type AuthConfig struct {
	SigningKey        string        `env:"AUTH_SIGNING_KEY,required,notEmpty"`
	Issuer            string        `env:"AUTH_ISSUER" envDefault:"openlms"`
	AccessTokenTTL    time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" envDefault:"1h"`
	Argon2Memory      uint32        `env:"ARGON2_MEMORY" envDefault:"65536"`
	Argon2Iterations  uint32        `env:"ARGON2_ITERATIONS" envDefault:"3"`
	Argon2Parallelism uint8         `env:"ARGON2_PARALLELISM" envDefault:"4"`
	Argon2SaltLength  uint32        `env:"ARGON2_SALT_LENGTH" envDefault:"16"`
	Argon2KeyLength   uint32        `env:"ARGON2_KEY_LENGTH" envDefault:"32"`
	LockoutMaxAttempt int           `env:"AUTH_LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	LockoutDuration   time.Duration `env:"AUTH_LOCKOUT_DURATION" envDefault:"15m"`
}

// RedisConfig holds the token revocation store configuration. Leave Addr
// empty to fall back to the in-process revocation list.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// EmailConfig holds outbound email configuration. Leave the API key empty to
// disable email delivery of notifications.
type EmailConfig struct {
	SendgridAPIKey string `env:"SENDGRID_API_KEY"`
	FromAddress    string `env:"EMAIL_FROM_ADDRESS" envDefault:"no-reply@openlms.io"`
	FromName       string `env:"EMAIL_FROM_NAME" envDefault:"OpenLMS"`
	SubjectPrefix  string `env:"EMAIL_SUBJECT_PREFIX" envDefault:"[OpenLMS] "`
}

// IsolationConfig holds the isolation-layer error policy. Fail-closed is the
// default; fail-open preserves the legacy log-and-proceed behavior and is a
// deliberate availability-over-safety tradeoff.
type IsolationConfig struct {
	FailOpen bool `env:"ISOLATION_FAIL_OPEN" envDefault:"false"`
}

// ObservabilityConfig holds logging and tracing configuration.
type ObservabilityConfig struct {
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"json"`
	OTELEnabled    bool   `env:"OTEL_ENABLED" envDefault:"false"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"openlms"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"0.1.0"`
}

// BootstrapConfig seeds the first super admin account on startup. Leave
// the email empty to skip bootstrapping.
type BootstrapConfig struct {
	AdminEmail    string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	AdminPassword string `env:"BOOTSTRAP_ADMIN_PASSWORD"`
	AdminName     string `env:"BOOTSTRAP_ADMIN_NAME" envDefault:"Platform Admin"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATELIMIT_RPS" envDefault:"10"`
	Burst             int     `env:"RATELIMIT_BURST" envDefault:"20"`
}

var dotenvOnce sync.Once

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional; absence is not an error.
		_ = godotenv.Load()
	})

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
