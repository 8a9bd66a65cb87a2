package internaldefs

import (
	"github.com/shopmesh/userauth"
)

// CounterDef maps one engine counter to its exported name.
type CounterDef struct {
	ID   userauth.MetricID
	Name string
	Help string
}

// HistogramDef maps one engine histogram to its exported name.
type HistogramDef struct {
	ID   userauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Exporters iterate this slice so
// the two backends can never disagree on names.
var CounterDefs = []CounterDef{
	{ID: userauth.MetricLoginSuccess, Name: "userauth_login_success_total", Help: "Successful login attempts."},
	{ID: userauth.MetricLoginFailure, Name: "userauth_login_failure_total", Help: "Failed login attempts."},
	{ID: userauth.MetricAccountLocked, Name: "userauth_account_locked_total", Help: "Lockout windows opened."},
	{ID: userauth.MetricRegisterSuccess, Name: "userauth_register_success_total", Help: "Successful registrations."},
	{ID: userauth.MetricRegisterConflict, Name: "userauth_register_conflict_total", Help: "Registrations rejected as duplicate."},
	{ID: userauth.MetricRefreshSuccess, Name: "userauth_refresh_success_total", Help: "Successful refresh rotations."},
	{ID: userauth.MetricRefreshFailure, Name: "userauth_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: userauth.MetricRefreshReuseSignal, Name: "userauth_refresh_reuse_signal_total", Help: "Refresh attempts with an already-rotated token."},
	{ID: userauth.MetricProfileCacheHit, Name: "userauth_profile_cache_hit_total", Help: "Profile reads served from cache."},
	{ID: userauth.MetricProfileCacheMiss, Name: "userauth_profile_cache_miss_total", Help: "Profile reads that missed the cache."},
	{ID: userauth.MetricProfileUpdated, Name: "userauth_profile_updated_total", Help: "Profile update operations."},
	{ID: userauth.MetricAccountDeactivated, Name: "userauth_account_deactivated_total", Help: "Account deactivations."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: userauth.MetricValidateLatency, Name: "userauth_validate_latency_seconds", Help: "Access-token validation latency."},
}

// HistogramBounds are the bucket upper bounds as Prometheus le labels, in
// the engine's bucket order.
var HistogramBounds = []string{
	"0.001",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with identifier-safe strings
// for backends that cannot carry a le label.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a snapshot's bucket slice to the fixed
// bucket count. Snapshots omit all-zero histograms, so a nil input is valid.
func NormalizeBuckets(buckets []uint64) [userauth.MetricHistogramBuckets]uint64 {
	var out [userauth.MetricHistogramBuckets]uint64
	for i := 0; i < len(out) && i < len(buckets); i++ {
		out[i] = buckets[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus expects. The final entry equals the total observation count.
func CumulativeBuckets(buckets [userauth.MetricHistogramBuckets]uint64) [userauth.MetricHistogramBuckets]uint64 {
	var out [userauth.MetricHistogramBuckets]uint64
	var running uint64
	for i, v := range buckets {
		running += v
		out[i] = running
	}
	return out
}
