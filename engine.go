package memberauth

import (
	"io"
	"log/slog"

	"github.com/sjpark-dev/memberauth/password"
	"github.com/sjpark-dev/memberauth/token"
)

// Engine is the authentication core. Construct it through [Builder.Build];
// all fields are immutable afterwards and every method is safe for
// concurrent use.
type Engine struct {
	config        Config
	verification  *verificationStore
	refreshTokens *refreshStore
	tokens        *token.Manager
	passwords     *password.Hasher
	members       MemberProvider
	images        ImageStore
	mail          *mailDispatcher
	audit         *auditDispatcher
	metrics       *Metrics
	logger        *slog.Logger
}

// Close drains the mail and audit dispatchers. Queued emails are still
// delivered (or compensated) before Close returns.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.mail != nil {
		e.mail.Close()
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were discarded because the
// audit buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MailDropped reports how many emails were discarded because the mail queue
// was full. Each dropped send already ran its compensation.
func (e *Engine) MailDropped() uint64 {
	if e == nil || e.mail == nil {
		return 0
	}
	return e.mail.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
