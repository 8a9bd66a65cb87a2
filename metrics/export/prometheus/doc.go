// Package prometheus renders userauth metrics in Prometheus text exposition
// format.
//
// [NewPrometheusExporter] accepts a [userauth.Engine] and exposes an
// http.Handler that serves all engine counters and histograms. Counter names
// are prefixed userauth_*_total; the single histogram is
// userauth_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the
//     Handler.
//   - Mutate engine state.
package prometheus
