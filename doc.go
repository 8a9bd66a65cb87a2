// Package userauth provides a credential authentication engine with bcrypt
// password hashing, JWT access tokens, rotating opaque refresh tokens, and a
// Redis-backed profile cache.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// userauth is the public surface. It exposes [Engine], [Builder], [Config],
// the [CredentialStore] contract, and value types (AuthResult, Profile,
// AuditEvent, MetricsSnapshot). Persistence lives behind [CredentialStore];
// the store package ships an in-memory and a Postgres implementation, and
// callers may bring their own.
//
// # What this package must NOT do
//
//   - Return different errors for unknown usernames and wrong passwords;
//     both are [ErrInvalidCredentials].
//   - Store, log, or audit plaintext passwords or whole refresh tokens.
//   - Delete refresh-token rows: rotation and revocation only flip state,
//     so the chain of rotations stays reconstructable.
//
// # Performance contract
//
// ValidateAccess is the hot path: signature verification only, no store or
// Redis round-trips. Authenticate pays the bcrypt cost by design; everything
// else is one store call plus at most one cache operation.
package userauth
