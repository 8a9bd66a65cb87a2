// Package cache provides a small generic read-through cache on Redis with
// JSON-encoded values and per-cache TTLs.
//
// The cache is strictly best-effort: every failure, Redis outages included,
// reads as a miss and writes are fire-and-forget. Callers must treat it as
// an accelerator, never as a source of truth.
package cache
