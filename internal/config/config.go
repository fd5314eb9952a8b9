// Package config loads server settings from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server configuration. Every field has a workable
// default except the secrets, which degrade explicitly: an empty JWTSecret
// gets a random per-process key and an empty ResendAPIKey downgrades email
// delivery to log-only.
type Config struct {
	Port int `env:"PORT" envDefault:"3000"`

	// JWTSecret signs session tokens. Leave empty only in development;
	// tokens then do not survive a restart.
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	CodeTTL        time.Duration `env:"CODE_TTL" envDefault:"5m"`
	ResendCooldown time.Duration `env:"RESEND_COOLDOWN" envDefault:"60s"`

	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"3"`
	AttemptWindow    time.Duration `env:"ATTEMPT_WINDOW" envDefault:"15m"`
	LockoutDuration  time.Duration `env:"LOCKOUT_DURATION" envDefault:"30m"`

	// RedisAddr points at the verification code store. Empty starts an
	// embedded in-process instance, for development.
	RedisAddr string `env:"REDIS_ADDR"`

	// DatabasePath is the SQLite file for accounts. Empty selects the
	// in-memory store.
	DatabasePath string `env:"DATABASE_PATH"`

	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL" envDefault:"onboarding@resend.dev"`

	AuditLog bool `env:"AUDIT_LOG" envDefault:"false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// ListenAddr returns the address for the HTTP listener.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
