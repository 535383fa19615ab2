package memberauth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. Zero values are filled from
// [DefaultConfig] by the [Builder]; a Config is treated as immutable once the
// engine is built.
type Config struct {
	Token        TokenConfig
	Verification VerificationConfig
	Password     PasswordConfig
	Mailer       MailerConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures access/refresh token signing and lifetimes.
type TokenConfig struct {
	// Secret is the HS256 signing key. Required.
	Secret []byte
	// Issuer is stamped into every token when non-empty.
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

/*
====================================
VERIFICATION CONFIG
====================================
*/

// VerificationConfig tunes the email one-time-code workflow. The store's TTL
// granularity is minutes for the code, attempt, and verified keys, and
// seconds for the resend cooldown; durations are truncated accordingly.
type VerificationConfig struct {
	CodeDigits     int
	CodeTTL        time.Duration
	ResendCooldown time.Duration
	// MaxAttempts failed submissions block further attempts until the
	// attempt window expires.
	MaxAttempts int
	// AttemptWindow is a fixed window: its TTL starts at the first failed
	// attempt and is not extended by later ones.
	AttemptWindow time.Duration
	VerifiedTTL   time.Duration
	// EmailSubject is the subject line of the code email.
	EmailSubject string
}

// PasswordConfig configures the bcrypt hasher.
type PasswordConfig struct {
	// Cost is the bcrypt cost parameter; 0 selects the library default.
	Cost int
}

// MailerConfig bounds the asynchronous email dispatch pool.
type MailerConfig struct {
	// Workers is the number of delivery goroutines.
	Workers int
	// QueueSize bounds the pending-send queue. When full, new sends are
	// dropped and their compensation runs immediately.
	QueueSize int
	// SendTimeout bounds a single Mailer.Send call.
	SendTimeout time.Duration
}

// AuditConfig configures the audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig enables the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the production defaults: 6-digit codes valid 5
// minutes, 60-second resend cooldown, 5 attempts in a fixed 5-minute window,
// 30-minute verified marker, 30-minute access tokens, and 14-day refresh
// tokens.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 14 * 24 * time.Hour,
		},
		Verification: VerificationConfig{
			CodeDigits:     6,
			CodeTTL:        5 * time.Minute,
			ResendCooldown: 60 * time.Second,
			MaxAttempts:    5,
			AttemptWindow:  5 * time.Minute,
			VerifiedTTL:    30 * time.Minute,
			EmailSubject:   "Your email verification code",
		},
		Mailer: MailerConfig{
			Workers:     2,
			QueueSize:   64,
			SendTimeout: 10 * time.Second,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// Validate rejects configurations the engine cannot run with.
func (c Config) Validate() error {
	if len(c.Token.Secret) == 0 {
		return errors.New("token secret required")
	}
	if c.Token.AccessTTL <= 0 || c.Token.RefreshTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.Token.RefreshTTL < time.Minute {
		return errors.New("refresh TTL below store granularity (one minute)")
	}
	if c.Verification.CodeDigits < 4 || c.Verification.CodeDigits > 10 {
		return errors.New("verification code digits must be in [4,10]")
	}
	if c.Verification.CodeTTL < time.Minute {
		return errors.New("verification code TTL below store granularity (one minute)")
	}
	if c.Verification.ResendCooldown < time.Second {
		return errors.New("resend cooldown below store granularity (one second)")
	}
	if c.Verification.MaxAttempts <= 0 {
		return errors.New("verification max attempts must be positive")
	}
	if c.Verification.AttemptWindow < time.Minute {
		return errors.New("attempt window below store granularity (one minute)")
	}
	if c.Verification.VerifiedTTL < time.Minute {
		return errors.New("verified marker TTL below store granularity (one minute)")
	}
	if c.Mailer.Workers <= 0 || c.Mailer.QueueSize <= 0 {
		return errors.New("mailer pool must have positive workers and queue size")
	}
	return nil
}

func cloneConfig(c Config) Config {
	out := c
	out.Token.Secret = cloneBytes(c.Token.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// minutes truncates d to whole minutes for the store's minute-granularity
// TTLs. Sub-minute precision is intentionally lost.
func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}

func seconds(d time.Duration) int64 {
	return int64(d / time.Second)
}
