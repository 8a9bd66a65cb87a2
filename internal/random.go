package internal

import (
	"crypto/rand"
	"encoding/base64"
)

// Refresh tokens carry 64 bytes (512 bits) of entropy and embed no
// user-derived data, so one leaked token reveals nothing about any other.
const refreshTokenRawSize = 64

func NewRefreshToken() (string, error) {
	var raw [refreshTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
