package goStats

import internalmetrics "github.com/MrEthical07/goStats/internal/metrics"

// MetricID identifies a conductor self-metric.
type MetricID = internalmetrics.MetricID

const (
	// MetricRecordAccepted counts observations that reached the ring.
	MetricRecordAccepted = internalmetrics.RecordAccepted
	// MetricRecordDropped counts observations dropped because the ring was full.
	MetricRecordDropped = internalmetrics.RecordDropped
	// MetricRecordUnknownTracker counts observations for unregistered trackers.
	MetricRecordUnknownTracker = internalmetrics.RecordUnknownTracker
	// MetricTrackerRegistered counts accepted registrations.
	MetricTrackerRegistered = internalmetrics.TrackerRegistered
	// MetricTrackerDuplicate counts registrations ignored for a reused uid.
	MetricTrackerDuplicate = internalmetrics.TrackerDuplicate
	// MetricLogDispatched counts scheduled logs.
	MetricLogDispatched = internalmetrics.LogDispatched
	// MetricLogAndResetDispatched counts scheduled logs that also reset.
	MetricLogAndResetDispatched = internalmetrics.LogAndResetDispatched
	// MetricResetRequested counts on-demand resets.
	MetricResetRequested = internalmetrics.ResetRequested
	// MetricEventFailed counts events whose processing panicked or returned an
	// error, including stat logger errors (also counted by MetricStatLoggerFailed).
	MetricEventFailed = internalmetrics.EventFailed
	// MetricStatLoggerFailed counts stat logger errors.
	MetricStatLoggerFailed = internalmetrics.StatLoggerFailed
	// MetricStatLoggerLatency is the histogram of stat logger call durations.
	MetricStatLoggerLatency = internalmetrics.StatLoggerLatency
	// MetricClaimWait is the histogram of blocking claim waits.
	MetricClaimWait = internalmetrics.ClaimWait
)

// Metrics holds lock-free counters and latency histograms. A nil *Metrics
// records nothing.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics returns a Metrics honoring cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:                 cfg.Enabled,
		EnableLatencyHistograms: cfg.EnableLatencyHistograms,
	})
}
