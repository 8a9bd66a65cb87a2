// Package middleware provides net/http middleware for bearer-token
// authentication and policy-based authorization.
package middleware
