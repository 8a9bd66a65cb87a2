package userauth

import "errors"

// Sentinel errors returned by the engine. Authentication failures collapse
// into ErrInvalidCredentials regardless of cause so that responses never
// reveal whether a username exists.
var (
	// ErrInvalidCredentials is returned when a username is unknown or a
	// password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountLocked is returned while an account's lockout window is
	// open. Attempts during the window are rejected before password
	// verification and do not extend the lock.
	ErrAccountLocked = errors.New("account locked")

	// ErrConflict is returned when a username or email is already taken.
	ErrConflict = errors.New("duplicate username or email")

	// ErrInvalidToken is returned when a refresh token is unknown, expired,
	// revoked, or already rotated. The one-bit failure hides which.
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrNotFound is returned when a referenced user does not exist or is
	// inactive.
	ErrNotFound = errors.New("user not found")

	// ErrUnauthorized is returned when an access token fails validation or
	// a policy check denies the caller.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRegistration is returned when registration input is missing
	// a username, email, or password.
	ErrInvalidRegistration = errors.New("invalid registration input")

	// ErrEngineNotReady is returned by Build when mandatory wiring is
	// missing.
	ErrEngineNotReady = errors.New("engine not initialized")

	// ErrStoreUnavailable wraps infrastructure failures from the credential
	// store. It is never collapsed into an authentication failure.
	ErrStoreUnavailable = errors.New("credential store unavailable")
)
