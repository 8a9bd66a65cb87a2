package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopmesh/userauth"
)

// Memory is an in-process CredentialStore for tests, examples, and
// single-node development. All records are copied on the way in and out, so
// callers can never alias store state.
type Memory struct {
	mu sync.Mutex

	users      map[string]*userauth.User // by ID
	byUsername map[string]string         // username -> ID
	byEmail    map[string]string         // email -> ID
	order      []string                  // IDs in creation order

	tokens map[string]*userauth.RefreshToken // by token value
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:      make(map[string]*userauth.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
		tokens:     make(map[string]*userauth.RefreshToken),
	}
}

func cloneUser(u *userauth.User) *userauth.User {
	out := *u
	if u.LockedUntil != nil {
		t := *u.LockedUntil
		out.LockedUntil = &t
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		out.LastLoginAt = &t
	}
	return &out
}

func cloneToken(t *userauth.RefreshToken) *userauth.RefreshToken {
	out := *t
	if t.RevokedAt != nil {
		ts := *t.RevokedAt
		out.RevokedAt = &ts
	}
	return &out
}

func (m *Memory) GetActiveUserByUsername(_ context.Context, username string) (*userauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byUsername[username]
	if !ok {
		return nil, userauth.ErrNotFound
	}
	u := m.users[id]
	if !u.Active {
		return nil, userauth.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) GetActiveUserByID(_ context.Context, id string) (*userauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || !u.Active {
		return nil, userauth.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) GetUserByID(_ context.Context, id string) (*userauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, userauth.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) UserExists(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byUsername[username]; ok {
		return true, nil
	}
	if _, ok := m.byEmail[email]; ok {
		return true, nil
	}
	return false, nil
}

func (m *Memory) CreateUser(_ context.Context, user *userauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ID]; ok {
		return userauth.ErrConflict
	}
	if _, ok := m.byUsername[user.Username]; ok {
		return userauth.ErrConflict
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return userauth.ErrConflict
	}

	m.users[user.ID] = cloneUser(user)
	m.byUsername[user.Username] = user.ID
	m.byEmail[user.Email] = user.ID
	m.order = append(m.order, user.ID)
	return nil
}

func (m *Memory) UpdateUser(_ context.Context, user *userauth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.users[user.ID]
	if !ok {
		return userauth.ErrNotFound
	}

	if user.Username != current.Username {
		if _, taken := m.byUsername[user.Username]; taken {
			return userauth.ErrConflict
		}
	}
	if user.Email != current.Email {
		if _, taken := m.byEmail[user.Email]; taken {
			return userauth.ErrConflict
		}
	}

	delete(m.byUsername, current.Username)
	delete(m.byEmail, current.Email)
	m.users[user.ID] = cloneUser(user)
	m.byUsername[user.Username] = user.ID
	m.byEmail[user.Email] = user.ID
	return nil
}

func (m *Memory) ListActiveUsers(_ context.Context, page, pageSize int) ([]userauth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := make([]*userauth.User, 0, len(m.order))
	for _, id := range m.order {
		if u := m.users[id]; u.Active {
			active = append(active, u)
		}
	}

	start := (page - 1) * pageSize
	if start >= len(active) {
		return []userauth.User{}, nil
	}
	end := start + pageSize
	if end > len(active) {
		end = len(active)
	}

	out := make([]userauth.User, 0, end-start)
	for _, u := range active[start:end] {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (m *Memory) RecordLoginFailure(_ context.Context, userID string, threshold int, lockFor time.Duration) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, userauth.ErrNotFound
	}

	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= threshold {
		until := time.Now().UTC().Add(lockFor)
		u.LockedUntil = &until
		copied := until
		return &copied, nil
	}
	return nil, nil
}

func (m *Memory) RecordLoginSuccess(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return userauth.ErrNotFound
	}

	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	ts := at
	u.LastLoginAt = &ts
	return nil
}

func (m *Memory) GetRefreshToken(_ context.Context, token string) (*userauth.RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, userauth.ErrNotFound
	}
	return cloneToken(t), nil
}

func (m *Memory) CreateRefreshToken(_ context.Context, token *userauth.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token.Token]; ok {
		return userauth.ErrConflict
	}
	m.tokens[token.Token] = cloneToken(token)
	return nil
}

func (m *Memory) RotateRefreshToken(_ context.Context, presented string, next *userauth.RefreshToken, revokedByIP, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.tokens[presented]
	if !ok || !current.Usable(at) {
		return userauth.ErrInvalidToken
	}
	if _, dup := m.tokens[next.Token]; dup {
		return userauth.ErrConflict
	}

	current.Active = false
	ts := at
	current.RevokedAt = &ts
	current.RevokedByIP = revokedByIP
	current.RevokedReason = reason
	current.ReplacedByToken = next.Token

	m.tokens[next.Token] = cloneToken(next)
	return nil
}

// SetLockedUntil overwrites a user's lockout expiry directly. Test hook.
func (m *Memory) SetLockedUntil(userID string, until *time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[userID]; ok {
		u.LockedUntil = until
	}
}

// SetTokenExpiry overwrites a refresh token's expiry directly. Test hook.
func (m *Memory) SetTokenExpiry(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.tokens[token]; ok {
		t.ExpiresAt = expiresAt
	}
}
