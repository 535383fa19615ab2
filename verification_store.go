package memberauth

import (
	"context"
	"strconv"

	"github.com/sjpark-dev/memberauth/kv"
)

// Redis key layout of the verification workflow. One record of each kind per
// address; overwrites are implicit, but the code key is explicitly deleted
// before a resend so no stale TTL window survives.
const (
	verificationCodeKeyPrefix     = "email:auth:"
	verificationRateKeyPrefix     = "email:rate:"
	verificationAttemptKeyPrefix  = "email:attempt:"
	verificationVerifiedKeyPrefix = "email:verified:"
)

type verificationStore struct {
	store kv.Store
}

func newVerificationStore(store kv.Store) *verificationStore {
	return &verificationStore{store: store}
}

func (s *verificationStore) SaveCode(ctx context.Context, email, code string, ttlMinutes int64) error {
	return s.store.SetMinutes(ctx, verificationCodeKeyPrefix+email, code, ttlMinutes)
}

// Code returns the stored code for email, or kv.ErrNotFound when none exists.
// An expired code and a never-sent code are the same miss.
func (s *verificationStore) Code(ctx context.Context, email string) (string, error) {
	return s.store.Get(ctx, verificationCodeKeyPrefix+email)
}

func (s *verificationStore) DeleteCode(ctx context.Context, email string) error {
	return s.store.Delete(ctx, verificationCodeKeyPrefix+email)
}

// RateLimited reports whether the resend cooldown marker is still live.
func (s *verificationStore) RateLimited(ctx context.Context, email string) (bool, error) {
	_, err := s.store.Get(ctx, verificationRateKeyPrefix+email)
	if err == kv.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *verificationStore) MarkRateLimited(ctx context.Context, email string, cooldownSeconds int64) error {
	return s.store.SetSeconds(ctx, verificationRateKeyPrefix+email, "1", cooldownSeconds)
}

func (s *verificationStore) ClearRateLimit(ctx context.Context, email string) error {
	return s.store.Delete(ctx, verificationRateKeyPrefix+email)
}

// Attempts returns the current failed-attempt count; an absent counter is 0.
func (s *verificationStore) Attempts(ctx context.Context, email string) (int64, error) {
	val, err := s.store.Get(ctx, verificationAttemptKeyPrefix+email)
	if err == kv.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Counter key was overwritten with garbage; treat as zero rather
		// than locking the address out forever.
		return 0, nil
	}
	return count, nil
}

// IncrementAttempts bumps the failed-attempt counter. The window TTL is set
// only when the increment creates the key: a fixed window, not a sliding one.
func (s *verificationStore) IncrementAttempts(ctx context.Context, email string, windowMinutes int64) (int64, error) {
	return s.store.IncrementMinutes(ctx, verificationAttemptKeyPrefix+email, windowMinutes)
}

func (s *verificationStore) ClearAttempts(ctx context.Context, email string) error {
	return s.store.Delete(ctx, verificationAttemptKeyPrefix+email)
}

func (s *verificationStore) MarkVerified(ctx context.Context, email string, ttlMinutes int64) error {
	return s.store.SetMinutes(ctx, verificationVerifiedKeyPrefix+email, "true", ttlMinutes)
}

// Verified reports whether the verified marker is live for email.
func (s *verificationStore) Verified(ctx context.Context, email string) (bool, error) {
	_, err := s.store.Get(ctx, verificationVerifiedKeyPrefix+email)
	if err == kv.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
