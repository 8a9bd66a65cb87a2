// Package internal contains helper utilities that are intentionally private
// to userauth, including secure refresh-token generation.
//
// # Sub-packages
//
//   - metrics — lock-free counters and latency histograms
//
// # What this package must NOT do
//
//   - Export types that appear in the public userauth API.
//   - Be imported by any package outside the userauth module.
package internal
