package firetrack

import "sync/atomic"

// MetricID identifies one internal counter.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginRejected
	MetricLoginMalformed
	MetricLoginNetworkError
	MetricSessionRestored
	MetricSessionRestoreExpired
	MetricSessionExpired
	MetricLogout
	MetricScanStarted
	MetricScanResolved
	MetricScanInvalidPayload
	MetricScanResolutionFailed
	MetricScanStaleDropped
	MetricReplacementDuplicate
	MetricReplacementRecorded
	MetricStorageError
	metricIDCount
)

// MetricDef describes one counter for exporters.
type MetricDef struct {
	ID   MetricID
	Name string
	Help string
}

// MetricDefs returns the full counter catalogue in MetricID order.
func MetricDefs() []MetricDef {
	return []MetricDef{
		{MetricLoginSuccess, "firetrack.login.success", "Logins that produced an active session."},
		{MetricLoginRejected, "firetrack.login.rejected", "Logins the server denied."},
		{MetricLoginMalformed, "firetrack.login.malformed", "Login responses that violated the contract."},
		{MetricLoginNetworkError, "firetrack.login.network_error", "Logins lost to transport failure or timeout."},
		{MetricSessionRestored, "firetrack.session.restored", "Sessions restored from durable storage."},
		{MetricSessionRestoreExpired, "firetrack.session.restore_expired", "Stored sessions discarded as expired on restore."},
		{MetricSessionExpired, "firetrack.session.expired", "Active sessions ended by the expiry timer."},
		{MetricLogout, "firetrack.session.logout", "Sessions ended by explicit logout."},
		{MetricScanStarted, "firetrack.scan.started", "Scan cycles entered capture."},
		{MetricScanResolved, "firetrack.scan.resolved", "Scans resolved to an asset."},
		{MetricScanInvalidPayload, "firetrack.scan.invalid_payload", "Scanned strings that matched no payload shape."},
		{MetricScanResolutionFailed, "firetrack.scan.resolution_failed", "Well-formed scans the server could not resolve."},
		{MetricScanStaleDropped, "firetrack.scan.stale_dropped", "Resolution responses dropped after a reset."},
		{MetricReplacementDuplicate, "firetrack.replacement.duplicate", "Replacement scans rejected for matching the original."},
		{MetricReplacementRecorded, "firetrack.replacement.recorded", "Replacement events accepted by the server."},
		{MetricStorageError, "firetrack.storage.errors", "Durable storage operations that failed."},
	}
}

// Metrics is a fixed set of process-local counters. Increments are
// lock-free; a disabled instance turns every call into a no-op so callers
// never branch.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics builds the counter set according to cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter. Unknown ids are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of every counter.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Value returns the snapshot's count for id.
func (s MetricsSnapshot) Value(id MetricID) uint64 { return s.Counters[id] }

// Snapshot copies all counters. Counters may advance between individual
// reads; each value is itself consistent.
func (m *Metrics) Snapshot() MetricsSnapshot {
	out := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil {
		return out
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		out.Counters[id] = m.counters[id].Load()
	}
	return out
}
