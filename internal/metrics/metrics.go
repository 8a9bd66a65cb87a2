package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID uint8

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricAccountLocked
	MetricRegisterSuccess
	MetricRegisterConflict
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricRefreshReuseSignal
	MetricProfileCacheHit
	MetricProfileCacheMiss
	MetricProfileUpdated
	MetricAccountDeactivated
	MetricValidateLatency

	MetricIDCount
)

// HistogramBuckets is the fixed bucket count of every latency histogram.
const HistogramBuckets = 8

// latencyBucketBounds are the upper bounds of the first seven buckets; the
// eighth bucket is the overflow.
var latencyBucketBounds = [HistogramBuckets - 1]time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
}

// Config controls which parts of the metrics system are active.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// Metrics holds lock-free atomic counters and optional latency histograms.
// A nil or disabled Metrics makes every operation a no-op.
type Metrics struct {
	enabled bool
	latency bool

	counters   [MetricIDCount]atomic.Uint64
	histograms [MetricIDCount][HistogramBuckets]atomic.Uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New creates a Metrics instance for cfg.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatency,
	}
}

// Inc adds one to the counter identified by id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// LatencyEnabled reports whether Observe records anything.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.latency
}

// Observe records d into the histogram identified by id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.latency || id >= MetricIDCount {
		return
	}
	m.histograms[id][bucketFor(d)].Add(1)
}

func bucketFor(d time.Duration) int {
	for i, bound := range latencyBucketBounds {
		if d <= bound {
			return i
		}
	}
	return HistogramBuckets - 1
}

// Snapshot copies every non-zero counter and every non-empty histogram.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   make(map[MetricID]uint64),
		Histograms: make(map[MetricID][]uint64),
	}
	if m == nil || !m.enabled {
		return snap
	}

	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := m.counters[id].Load(); v != 0 {
			snap.Counters[id] = v
		}

		var buckets []uint64
		for b := 0; b < HistogramBuckets; b++ {
			if v := m.histograms[id][b].Load(); v != 0 {
				if buckets == nil {
					buckets = make([]uint64, HistogramBuckets)
				}
				buckets[b] = v
			}
		}
		if buckets != nil {
			snap.Histograms[id] = buckets
		}
	}

	return snap
}

// LatencyBucketBounds returns the bucket upper bounds in seconds. The slice
// has HistogramBuckets-1 entries; the last bucket catches everything above
// the final bound.
func LatencyBucketBounds() []float64 {
	bounds := make([]float64, len(latencyBucketBounds))
	for i, d := range latencyBucketBounds {
		bounds[i] = d.Seconds()
	}
	return bounds
}
