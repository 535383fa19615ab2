package memberauth

import (
	"testing"
	"time"
)

func TestDefaultConfigRequiresSecret(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error without a token secret")
	}

	cfg.Token.Secret = []byte("secret")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults with a secret should validate, got %v", err)
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero access TTL", func(c *Config) { c.Token.AccessTTL = 0 }},
		{"sub-minute refresh TTL", func(c *Config) { c.Token.RefreshTTL = 30 * time.Second }},
		{"too few code digits", func(c *Config) { c.Verification.CodeDigits = 3 }},
		{"too many code digits", func(c *Config) { c.Verification.CodeDigits = 11 }},
		{"sub-minute code TTL", func(c *Config) { c.Verification.CodeTTL = 30 * time.Second }},
		{"sub-second cooldown", func(c *Config) { c.Verification.ResendCooldown = 500 * time.Millisecond }},
		{"zero max attempts", func(c *Config) { c.Verification.MaxAttempts = 0 }},
		{"sub-minute attempt window", func(c *Config) { c.Verification.AttemptWindow = 10 * time.Second }},
		{"sub-minute verified TTL", func(c *Config) { c.Verification.VerifiedTTL = 10 * time.Second }},
		{"zero mailer workers", func(c *Config) { c.Mailer.Workers = 0 }},
		{"zero mailer queue", func(c *Config) { c.Mailer.QueueSize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Token.Secret = []byte("secret")
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigCopiesSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Token.Secret = []byte("secret")

	clone := cloneConfig(cfg)
	clone.Token.Secret[0] = 'X'

	if cfg.Token.Secret[0] == 'X' {
		t.Fatal("clone shares the secret slice with the original")
	}
}

func TestDurationTruncation(t *testing.T) {
	if got := minutes(90 * time.Second); got != 1 {
		t.Fatalf("minutes(90s) = %d, want 1", got)
	}
	if got := minutes(14 * 24 * time.Hour); got != 20160 {
		t.Fatalf("minutes(14d) = %d, want 20160", got)
	}
	if got := seconds(1500 * time.Millisecond); got != 1 {
		t.Fatalf("seconds(1.5s) = %d, want 1", got)
	}
}
