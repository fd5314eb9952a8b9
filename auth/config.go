package auth

import (
	"errors"
	"time"

	"secureapp/server/internal/audit"
	"secureapp/server/jwt"
	"secureapp/server/password"
)

// Config controls every tunable of the Engine. Zero values are filled in
// from DefaultConfig by the builder, so callers only set what they change.
type Config struct {
	JWT      JWTConfig
	Codes    CodeConfig
	Login    LoginConfig
	Password password.Config
	Audit    audit.Config

	// MetricsEnabled turns on the in-process counters exposed by
	// MetricsSnapshot. Disabled counters cost nothing.
	MetricsEnabled bool
}

// JWTConfig configures session token issuance and validation.
type JWTConfig struct {
	// Secret is the HS256 signing key. Must be at least 32 bytes.
	Secret []byte
	// TTL is the token lifetime. Tokens are never refreshed; a new login
	// issues a new token.
	TTL time.Duration
	// Leeway tolerates clock skew during expiry checks.
	Leeway time.Duration
	Issuer string
}

// CodeConfig configures verification code issuance.
type CodeConfig struct {
	// Digits is the code length. Codes are numeric.
	Digits int
	// TTL is how long an issued code stays valid.
	TTL time.Duration
	// ResendCooldown is the minimum gap between two codes for the same
	// email address.
	ResendCooldown time.Duration
}

// LoginConfig configures the per-identifier lockout policy.
type LoginConfig struct {
	// MaxAttempts is how many attempts are allowed inside Window before
	// the identifier locks.
	MaxAttempts int
	// Window is the sliding inactivity window. An attempt more than
	// Window after the previous one resets the counter.
	Window time.Duration
	// LockoutDuration is reported to locked-out callers as the wait
	// before retrying.
	LockoutDuration time.Duration
}

// DefaultConfig returns the production defaults: 6-digit codes valid for
// five minutes with a one minute resend cooldown, three login attempts per
// fifteen minute window with a thirty minute lockout, and one hour tokens.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TTL:    time.Hour,
			Issuer: "secureapp",
		},
		Codes: CodeConfig{
			Digits:         6,
			TTL:            5 * time.Minute,
			ResendCooldown: time.Minute,
		},
		Login: LoginConfig{
			MaxAttempts:     3,
			Window:          15 * time.Minute,
			LockoutDuration: 30 * time.Minute,
		},
		Password: password.DefaultConfig(),
		Audit: audit.Config{
			BufferSize: 256,
			DropIfFull: true,
		},
		MetricsEnabled: true,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.JWT.TTL <= 0 {
		c.JWT.TTL = def.JWT.TTL
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = def.JWT.Issuer
	}
	if c.Codes.Digits == 0 {
		c.Codes.Digits = def.Codes.Digits
	}
	if c.Codes.TTL <= 0 {
		c.Codes.TTL = def.Codes.TTL
	}
	if c.Codes.ResendCooldown <= 0 {
		c.Codes.ResendCooldown = def.Codes.ResendCooldown
	}
	if c.Login.MaxAttempts <= 0 {
		c.Login.MaxAttempts = def.Login.MaxAttempts
	}
	if c.Login.Window <= 0 {
		c.Login.Window = def.Login.Window
	}
	if c.Login.LockoutDuration <= 0 {
		c.Login.LockoutDuration = def.Login.LockoutDuration
	}
	if c.Audit.BufferSize <= 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}
}

func (c *Config) validate() error {
	if len(c.JWT.Secret) < jwt.MinSecretLength {
		return errors.New("jwt secret must be at least 32 bytes")
	}
	if c.Codes.Digits < 6 || c.Codes.Digits > 10 {
		return errors.New("code digits must be between 6 and 10")
	}
	if c.Codes.ResendCooldown > c.Codes.TTL {
		return errors.New("resend cooldown must not exceed code ttl")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("jwt leeway must be between 0 and 2 minutes")
	}
	return nil
}
