package auth

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Codes.Digits != 6 {
		t.Fatalf("Digits = %d, want 6", cfg.Codes.Digits)
	}
	if cfg.Codes.TTL != 5*time.Minute {
		t.Fatalf("code TTL = %s, want 5m", cfg.Codes.TTL)
	}
	if cfg.Codes.ResendCooldown != time.Minute {
		t.Fatalf("resend cooldown = %s, want 1m", cfg.Codes.ResendCooldown)
	}
	if cfg.Login.MaxAttempts != 3 {
		t.Fatalf("MaxAttempts = %d, want 3", cfg.Login.MaxAttempts)
	}
	if cfg.Login.LockoutDuration != 30*time.Minute {
		t.Fatalf("lockout = %s, want 30m", cfg.Login.LockoutDuration)
	}
	if cfg.JWT.TTL != time.Hour {
		t.Fatalf("token TTL = %s, want 1h", cfg.JWT.TTL)
	}
}

func TestApplyDefaultsFillsZeroValues(t *testing.T) {
	var cfg Config
	cfg.applyDefaults()

	if cfg.Codes.Digits != 6 || cfg.Login.MaxAttempts != 3 || cfg.JWT.TTL != time.Hour {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.JWT.Secret = []byte("0123456789abcdef0123456789abcdef")
	if err := valid.validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	shortSecret := valid
	shortSecret.JWT.Secret = []byte("short")
	if err := shortSecret.validate(); err == nil {
		t.Fatal("expected short secret to be rejected")
	}

	badDigits := valid
	badDigits.Codes.Digits = 4
	if err := badDigits.validate(); err == nil {
		t.Fatal("expected 4-digit codes to be rejected")
	}

	badCooldown := valid
	badCooldown.Codes.ResendCooldown = 10 * time.Minute
	if err := badCooldown.validate(); err == nil {
		t.Fatal("expected cooldown > ttl to be rejected")
	}
}

func TestBuilderValidation(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected Build without redis to fail")
	}

	b := New().WithRedis(newTestRedis(t))
	if _, err := b.Build(); err == nil {
		t.Fatal("expected Build without user store to fail")
	}
}
