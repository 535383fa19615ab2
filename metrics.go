package memberauth

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricCodeRequested
	MetricCodeResendBlocked
	MetricCodeVerified
	MetricCodeMismatch
	MetricCodeBlocked
	MetricSignUpSuccess
	MetricSignUpRejected
	MetricMailSendFailure

	metricIDCount
)

// metricNames are the stable export names, indexed by MetricID.
var metricNames = [metricIDCount]string{
	MetricLoginSuccess:      "login_success",
	MetricLoginFailure:      "login_failure",
	MetricRefreshSuccess:    "refresh_success",
	MetricRefreshFailure:    "refresh_failure",
	MetricLogout:            "logout",
	MetricCodeRequested:     "code_requested",
	MetricCodeResendBlocked: "code_resend_blocked",
	MetricCodeVerified:      "code_verified",
	MetricCodeMismatch:      "code_mismatch",
	MetricCodeBlocked:       "code_blocked",
	MetricSignUpSuccess:     "signup_success",
	MetricSignUpRejected:    "signup_rejected",
	MetricMailSendFailure:   "mail_send_failure",
}

// Name returns the stable export name of the metric, or "" for an unknown ID.
func (id MetricID) Name() string {
	if id >= metricIDCount {
		return ""
	}
	return metricNames[id]
}

// MetricIDs returns every defined metric ID in declaration order.
func MetricIDs() []MetricID {
	ids := make([]MetricID, 0, metricIDCount)
	for id := MetricID(0); id < metricIDCount; id++ {
		ids = append(ids, id)
	}
	return ids
}

// counterSlot is cache-line padded so adjacent counters never share a line
// under concurrent increments.
type counterSlot struct {
	value uint64
	_     [56]byte
}

// Metrics holds lock-free counters. All operations on a disabled or nil
// Metrics are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]counterSlot
}

// NewMetrics creates a Metrics instance; when cfg.Enabled is false every
// operation is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Enabled reports whether counters are recording.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads a single counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot deep-copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{Counters: make(map[MetricID]uint64, int(metricIDCount))}
	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	return s
}
