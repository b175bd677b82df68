// Package prometheus exposes goStats conductor self-metrics to Prometheus.
//
// [NewPrometheusExporter] accepts a [goStats.Engine] and exposes an [http.Handler]
// that renders every counter and latency histogram in text exposition format.
// Counter names are prefixed gostats_*_total. Tracker statistics themselves
// are served by the statlog prometheus sink, not by this package.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
