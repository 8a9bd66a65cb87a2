package userauth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// mockStore is an in-memory CredentialStore for engine tests. Tests reach
// into its maps directly to age tokens or lockouts.
type mockStore struct {
	mu     sync.Mutex
	users  map[string]*User
	tokens map[string]*RefreshToken
}

func newMockStore() *mockStore {
	return &mockStore{
		users:  map[string]*User{},
		tokens: map[string]*RefreshToken{},
	}
}

func (m *mockStore) putUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *u
	m.users[u.ID] = &copied
}

func (m *mockStore) user(id string) *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[id]
}

func (m *mockStore) token(token string) *RefreshToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens[token]
}

func (m *mockStore) GetActiveUserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.Active {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockStore) GetActiveUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || !u.Active {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockStore) UserExists(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) CreateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrConflict
		}
	}
	if _, ok := m.users[user.ID]; ok {
		return ErrConflict
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockStore) UpdateUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return ErrNotFound
	}
	for id, u := range m.users {
		if id == user.ID {
			continue
		}
		if u.Username == user.Username || u.Email == user.Email {
			return ErrConflict
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockStore) ListActiveUsers(_ context.Context, page, pageSize int) ([]User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := make([]User, 0, len(m.users))
	for _, u := range m.users {
		if u.Active {
			active = append(active, *u)
		}
	}
	start := (page - 1) * pageSize
	if start >= len(active) {
		return []User{}, nil
	}
	end := start + pageSize
	if end > len(active) {
		end = len(active)
	}
	return active[start:end], nil
}

func (m *mockStore) RecordLoginFailure(_ context.Context, userID string, threshold int, lockFor time.Duration) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
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

func (m *mockStore) RecordLoginSuccess(_ context.Context, userID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	ts := at
	u.LastLoginAt = &ts
	return nil
}

func (m *mockStore) GetRefreshToken(_ context.Context, token string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (m *mockStore) CreateRefreshToken(_ context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.Token]; ok {
		return ErrConflict
	}
	copied := *token
	m.tokens[token.Token] = &copied
	return nil
}

func (m *mockStore) RotateRefreshToken(_ context.Context, presented string, next *RefreshToken, revokedByIP, reason string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.tokens[presented]
	if !ok || !current.Usable(at) {
		return ErrInvalidToken
	}
	current.Active = false
	ts := at
	current.RevokedAt = &ts
	current.RevokedByIP = revokedByIP
	current.RevokedReason = reason
	current.ReplacedByToken = next.Token
	copied := *next
	m.tokens[next.Token] = &copied
	return nil
}

// recordingSink captures every audit event for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (s *recordingSink) Write(_ context.Context, event AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) byType(eventType string) []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []AuditEvent
	for _, e := range s.events {
		if e.EventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = []byte("test-secret")
	// Keep unit tests fast; bcrypt cost 12 is for production.
	cfg.Password.Cost = 4
	return cfg
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func newTestEngine(t *testing.T, cfg Config, store CredentialStore) (*Engine, *recordingSink) {
	t.Helper()

	sink := &recordingSink{}
	engine, err := New().
		WithConfig(cfg).
		WithStore(store).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine, sink
}

// seedUser registers through the engine so the stored hash matches the
// engine's hasher, then returns the created user's ID.
func seedUser(t *testing.T, engine *Engine, store *mockStore, username, email, pass string) string {
	t.Helper()

	res, err := engine.Register(context.Background(), username, email, pass)
	if err != nil {
		t.Fatalf("seed register failed: %v", err)
	}
	if store.user(res.User.ID) == nil {
		t.Fatalf("seed user missing from store")
	}
	return res.User.ID
}
