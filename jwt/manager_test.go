package jwt

import (
	"errors"
	"testing"
	"time"
)

func testManager(t *testing.T, cfg Config) *Manager {
	t.Helper()
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := testManager(t, Config{
		Secret:    []byte("test-secret"),
		AccessTTL: time.Minute,
		Issuer:    "svc",
		Audience:  "api",
	})

	token, expiresAt, err := m.Issue("u1", "alice", "alice@example.com", "User")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expiresAt) > time.Minute || time.Until(expiresAt) < 50*time.Second {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "u1" || claims.Username != "alice" || claims.Email != "alice@example.com" || claims.Role != "User" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("expected a jti")
	}
	if claims.IssuedAt == nil {
		t.Fatal("expected an iat")
	}
}

func TestParseExpiredToken(t *testing.T) {
	m := testManager(t, Config{Secret: []byte("test-secret"), AccessTTL: time.Nanosecond})

	token, _, err := m.Issue("u1", "alice", "", "User")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if !m.IsExpired(token) {
		t.Fatal("IsExpired must report true")
	}
}

func TestParseTamperedToken(t *testing.T) {
	m := testManager(t, Config{Secret: []byte("test-secret"), AccessTTL: time.Minute})

	token, _, err := m.Issue("u1", "alice", "", "User")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := m.Parse(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseWrongSecret(t *testing.T) {
	issuer := testManager(t, Config{Secret: []byte("secret-a"), AccessTTL: time.Minute})
	verifier := testManager(t, Config{Secret: []byte("secret-b"), AccessTTL: time.Minute})

	token, _, err := issuer.Issue("u1", "alice", "", "User")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := verifier.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseIssuerAudienceMismatch(t *testing.T) {
	issuer := testManager(t, Config{Secret: []byte("s"), AccessTTL: time.Minute, Issuer: "svc-a", Audience: "api-a"})
	wrongIssuer := testManager(t, Config{Secret: []byte("s"), AccessTTL: time.Minute, Issuer: "svc-b"})
	wrongAudience := testManager(t, Config{Secret: []byte("s"), AccessTTL: time.Minute, Audience: "api-b"})

	token, _, err := issuer.Issue("u1", "alice", "", "User")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := wrongIssuer.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("issuer mismatch: expected ErrTokenInvalid, got %v", err)
	}
	if _, err := wrongAudience.Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("audience mismatch: expected ErrTokenInvalid, got %v", err)
	}
}

func TestParseGarbage(t *testing.T) {
	m := testManager(t, Config{Secret: []byte("s"), AccessTTL: time.Minute})

	for _, bad := range []string{"", "x", "a.b.c"} {
		if _, err := m.Parse(bad); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("Parse(%q): expected ErrTokenInvalid, got %v", bad, err)
		}
		if !m.IsExpired(bad) {
			t.Fatalf("IsExpired(%q) must report true for unparseable input", bad)
		}
	}
}

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager(Config{AccessTTL: time.Minute}); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewManager(Config{Secret: []byte("s")}); err == nil {
		t.Fatal("expected error for missing TTL")
	}
}
