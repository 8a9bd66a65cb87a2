package userauth

import (
	"context"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "User"
	// RoleAdmin grants access to every resource regardless of ownership.
	RoleAdmin Role = "Admin"
)

// User is the persisted identity record. Username and email are each
// globally unique among active and inactive users; uniqueness is enforced
// by the [CredentialStore], never recomputed by the engine.
type User struct {
	ID                  string
	Username            string
	Email               string
	PasswordHash        string
	Role                Role
	Active              bool
	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLoginAt         *time.Time
	CreatedAt           time.Time
}

// Locked reports whether the account's lockout window is still open at now.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Profile projects the user without password material.
func (u *User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// RefreshToken is one persisted session credential. Rows are never deleted,
// only marked inactive — the revocation fields and the ReplacedByToken
// back-reference form the audit trail for reuse detection. ReplacedByToken
// is a weak reference: it names the successor in the rotation chain but
// never owns it.
type RefreshToken struct {
	Token           string
	UserID          string
	ExpiresAt       time.Time
	Active          bool
	CreatedAt       time.Time
	CreatedByIP     string
	RevokedAt       *time.Time
	RevokedByIP     string
	RevokedReason   string
	ReplacedByToken string
}

// Expired reports whether the token's expiry has passed at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Usable reports whether the token may still authorize a refresh at now.
// Once false it never becomes true again; all terminal states stay terminal.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.Active && !t.Expired(now)
}

// Profile is the caller-visible projection of a user.
type Profile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// AuthResult is returned by [Engine.Authenticate], [Engine.Register], and
// [Engine.RefreshSession]. It is an ephemeral value and is never persisted.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         Profile
}

// ProfilePatch carries the mutable profile fields for [Engine.UpdateProfile].
// Zero-valued fields are left unchanged.
type ProfilePatch struct {
	Username string
	Email    string
	Role     Role
}

// CredentialStore is the transactional record store the engine drives. It is
// supplied by the caller; see the store package for implementations.
//
// Implementations must return [ErrNotFound] for absent records,
// [ErrConflict] for unique-key violations, [ErrInvalidToken] when the
// rotation compare-and-swap loses, and wrap infrastructure failures in
// [ErrStoreUnavailable]. RecordLoginFailure and RotateRefreshToken are the
// two operations that must execute as single atomic read-modify-write units;
// everything else is a plain keyed lookup, insert, or update.
type CredentialStore interface {
	GetActiveUserByUsername(ctx context.Context, username string) (*User, error)
	GetActiveUserByID(ctx context.Context, id string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	UserExists(ctx context.Context, username, email string) (bool, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	ListActiveUsers(ctx context.Context, page, pageSize int) ([]User, error)

	// RecordLoginFailure atomically increments the failure counter and, when
	// it reaches threshold, sets the lockout expiry to now+lockFor. It
	// returns the lockout expiry it set, or nil when the threshold was not
	// reached by this failure.
	RecordLoginFailure(ctx context.Context, userID string, threshold int, lockFor time.Duration) (*time.Time, error)

	// RecordLoginSuccess resets the failure counter, clears any lockout, and
	// stamps the last-login time.
	RecordLoginSuccess(ctx context.Context, userID string, at time.Time) error

	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	CreateRefreshToken(ctx context.Context, token *RefreshToken) error

	// RotateRefreshToken deactivates the presented token (revoked at `at`,
	// by revokedByIP, with reason), records next.Token as its successor, and
	// inserts next — all as one atomic unit. It fails with [ErrInvalidToken]
	// when the presented token is no longer active and unexpired, so
	// concurrent rotations of the same token yield exactly one winner.
	RotateRefreshToken(ctx context.Context, presented string, next *RefreshToken, revokedByIP, reason string, at time.Time) error
}
