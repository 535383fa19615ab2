package memberauth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/sjpark-dev/memberauth/internal"
	"github.com/sjpark-dev/memberauth/kv"
)

// RequestCode starts (or restarts) email verification for an address: it
// generates a one-time code, stores it with its TTL, arms the resend
// cooldown, and hands delivery to the mail pool. The call returns before the
// email is sent; a delivery failure is observable only through the
// compensating deletion of the code and cooldown keys, which lets the user
// retry immediately.
func (e *Engine) RequestCode(ctx context.Context, email string) error {
	if e.verification == nil || e.members == nil || e.mail == nil {
		return ErrEngineNotReady
	}
	if email == "" {
		return ErrInvalidInput
	}

	taken, err := e.members.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("member lookup: %w", err)
	}
	if taken {
		e.emitAudit(ctx, auditEventVerificationRequest, false, 0, email, ErrEmailAlreadyRegistered, nil)
		return ErrEmailAlreadyRegistered
	}

	limited, err := e.verification.RateLimited(ctx, email)
	if err != nil {
		return storeErr(err)
	}
	if limited {
		e.metricInc(MetricCodeResendBlocked)
		e.emitAudit(ctx, auditEventVerificationRequest, false, 0, email, ErrRateLimited, nil)
		return ErrRateLimited
	}

	// Delete-then-set: a plain overwrite would suffice for the value, but an
	// explicit delete guarantees no stale TTL window survives a resend.
	if err := e.verification.DeleteCode(ctx, email); err != nil {
		return storeErr(err)
	}

	code, err := internal.NewNumericCode(e.config.Verification.CodeDigits)
	if err != nil {
		return fmt.Errorf("code generation: %w", err)
	}

	codeTTL := minutes(e.config.Verification.CodeTTL)
	if err := e.verification.SaveCode(ctx, email, code, codeTTL); err != nil {
		return storeErr(err)
	}
	if err := e.verification.MarkRateLimited(ctx, email, seconds(e.config.Verification.ResendCooldown)); err != nil {
		return storeErr(err)
	}

	// Fire-and-forget. The compensation runs on the worker goroutine with a
	// background context: the original request may be long gone by then.
	e.mail.Enqueue(mailTask{
		to:       email,
		subject:  e.config.Verification.EmailSubject,
		htmlBody: verificationEmailBody(code, codeTTL),
		onFailure: func() {
			ctx := context.Background()
			if err := e.verification.DeleteCode(ctx, email); err != nil {
				e.logger.Error("compensation: delete code failed", "email", email, "err", err)
			}
			if err := e.verification.ClearRateLimit(ctx, email); err != nil {
				e.logger.Error("compensation: clear cooldown failed", "email", email, "err", err)
			}
			e.emitAudit(ctx, auditEventMailFailure, false, 0, email, nil, nil)
		},
	})

	e.metricInc(MetricCodeRequested)
	e.emitAudit(ctx, auditEventVerificationRequest, true, 0, email, nil, nil)
	return nil
}

// VerifyCode checks a submitted code. On a match the code is consumed
// (single use), the attempt counter cleared, and the verified marker set for
// the configured window. On a mismatch the failed-attempt counter is bumped;
// its TTL starts at the first failure and is not extended afterwards, so the
// lockout always ends a fixed interval after the first wrong attempt.
func (e *Engine) VerifyCode(ctx context.Context, email, code string) error {
	if e.verification == nil {
		return ErrEngineNotReady
	}
	if email == "" || code == "" {
		return ErrInvalidInput
	}

	attempts, err := e.verification.Attempts(ctx, email)
	if err != nil {
		return storeErr(err)
	}
	if attempts >= int64(e.config.Verification.MaxAttempts) {
		e.metricInc(MetricCodeBlocked)
		e.emitAudit(ctx, auditEventVerificationConfirm, false, 0, email, ErrVerificationBlocked, nil)
		return ErrVerificationBlocked
	}

	stored, err := e.verification.Code(ctx, email)
	if err == kv.ErrNotFound {
		e.emitAudit(ctx, auditEventVerificationConfirm, false, 0, email, ErrCodeExpired, nil)
		return ErrCodeExpired
	}
	if err != nil {
		return storeErr(err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		if _, err := e.verification.IncrementAttempts(ctx, email, minutes(e.config.Verification.AttemptWindow)); err != nil {
			return storeErr(err)
		}
		e.metricInc(MetricCodeMismatch)
		e.emitAudit(ctx, auditEventVerificationConfirm, false, 0, email, ErrCodeMismatch, nil)
		return ErrCodeMismatch
	}

	if err := e.verification.DeleteCode(ctx, email); err != nil {
		return storeErr(err)
	}
	if err := e.verification.ClearAttempts(ctx, email); err != nil {
		return storeErr(err)
	}
	if err := e.verification.MarkVerified(ctx, email, minutes(e.config.Verification.VerifiedTTL)); err != nil {
		return storeErr(err)
	}

	e.metricInc(MetricCodeVerified)
	e.emitAudit(ctx, auditEventVerificationConfirm, true, 0, email, nil, nil)
	return nil
}

// IsVerified reports whether the address carries a live verified marker.
// Used as the precondition gate by [Engine.SignUp].
func (e *Engine) IsVerified(ctx context.Context, email string) (bool, error) {
	if e.verification == nil {
		return false, ErrEngineNotReady
	}
	if email == "" {
		return false, ErrInvalidInput
	}
	verified, err := e.verification.Verified(ctx, email)
	if err != nil {
		return false, storeErr(err)
	}
	return verified, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
