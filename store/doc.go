// Package store provides CredentialStore implementations: Memory for tests
// and single-node development, Postgres for production.
package store
