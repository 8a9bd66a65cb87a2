// Package jwt manages access-token issuance and verification with strict
// HS256 validation semantics suitable for low-latency authentication paths.
package jwt
