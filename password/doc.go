// Package password implements password hashing and verification with bcrypt.
//
// # Output format
//
// Hashes use bcrypt's self-describing modular crypt format:
//
//	$2a$<cost>$<salt+hash>
//
// The work factor is embedded in each hash, so [Hasher.Verify] checks stored
// hashes regardless of the cost the hasher was configured with, and the cost
// can be raised without invalidating existing credentials.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Lockout counting and
// credential lookup are enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive
//     hashes.
//   - Import any other userauth package.
//   - Log plaintext passwords.
package password
