// Package metrics implements the engine's in-process counters and latency
// histograms. Exported aliases live in the root package; exposition formats
// live under metrics/export.
package metrics
