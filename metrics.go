package userauth

import "github.com/shopmesh/userauth/internal/metrics"

// MetricID identifies one engine metric.
type MetricID = metrics.MetricID

// Metric identifiers re-exported for exporter packages.
const (
	MetricLoginSuccess       = metrics.MetricLoginSuccess
	MetricLoginFailure       = metrics.MetricLoginFailure
	MetricAccountLocked      = metrics.MetricAccountLocked
	MetricRegisterSuccess    = metrics.MetricRegisterSuccess
	MetricRegisterConflict   = metrics.MetricRegisterConflict
	MetricRefreshSuccess     = metrics.MetricRefreshSuccess
	MetricRefreshFailure     = metrics.MetricRefreshFailure
	MetricRefreshReuseSignal = metrics.MetricRefreshReuseSignal
	MetricProfileCacheHit    = metrics.MetricProfileCacheHit
	MetricProfileCacheMiss   = metrics.MetricProfileCacheMiss
	MetricProfileUpdated     = metrics.MetricProfileUpdated
	MetricAccountDeactivated = metrics.MetricAccountDeactivated
	MetricValidateLatency    = metrics.MetricValidateLatency
)

// MetricHistogramBuckets is the fixed bucket count for latency histograms.
const MetricHistogramBuckets = metrics.HistogramBuckets

// Metrics is the engine's in-process metrics registry.
type Metrics = metrics.Metrics

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot = metrics.Snapshot

// NewMetrics builds a registry from the engine-level config.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return metrics.New(metrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistogram,
	})
}

// MetricLatencyBucketBounds returns the upper bounds, in seconds, of the
// latency histogram buckets. The final bucket is unbounded.
func MetricLatencyBucketBounds() []float64 {
	return metrics.LatencyBucketBounds()
}
