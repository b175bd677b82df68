// Package otel provides OpenTelemetry bindings for goStats conductor
// self-metrics.
//
// [NewOTelExporter] registers an Int64ObservableCounter per goStats counter,
// an Int64ObservableGauge per histogram bucket, and gauges for the pending
// missed count and the dispatcher failure flag. A single callback reads
// [goStats.Engine.MetricsSnapshot] on each collection cycle.
//
// Tracker statistics are exported by the statlog otel sink instead.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate engine state.
package otel
