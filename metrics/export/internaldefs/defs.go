package internaldefs

import (
	goStats "github.com/MrEthical07/goStats"
)

// CounterDef defines a public type used by goStats APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goStats.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goStats APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goStats.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported conductor counter.
var CounterDefs = []CounterDef{
	{ID: goStats.MetricRecordAccepted, Name: "gostats_record_accepted_total", Help: "Observations accepted into the ring."},
	{ID: goStats.MetricRecordDropped, Name: "gostats_record_dropped_total", Help: "Observations dropped because the ring was full."},
	{ID: goStats.MetricRecordUnknownTracker, Name: "gostats_record_unknown_tracker_total", Help: "Observations for trackers that are not registered."},
	{ID: goStats.MetricTrackerRegistered, Name: "gostats_tracker_registered_total", Help: "Trackers registered."},
	{ID: goStats.MetricTrackerDuplicate, Name: "gostats_tracker_duplicate_total", Help: "Registrations ignored because the uid was taken."},
	{ID: goStats.MetricLogDispatched, Name: "gostats_log_dispatched_total", Help: "Scheduled log events dispatched."},
	{ID: goStats.MetricLogAndResetDispatched, Name: "gostats_log_and_reset_dispatched_total", Help: "Scheduled log-and-reset events dispatched."},
	{ID: goStats.MetricResetRequested, Name: "gostats_reset_requested_total", Help: "On-demand resets requested."},
	{ID: goStats.MetricEventFailed, Name: "gostats_event_failed_total", Help: "Events whose processing panicked or returned an error, stat logger errors included."},
	{ID: goStats.MetricStatLoggerFailed, Name: "gostats_stat_logger_failed_total", Help: "Stat logger calls that returned an error."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: goStats.MetricStatLoggerLatency, Name: "gostats_stat_logger_latency_seconds", Help: "Stat logger call latency histogram."},
	{ID: goStats.MetricClaimWait, Name: "gostats_claim_wait_seconds", Help: "Blocking slot claim wait histogram."},
}

// HistogramBounds are the upper bounds of the eight latency buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix renders HistogramBounds for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array, zero-filling
// missing buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
