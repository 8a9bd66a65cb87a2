package userauth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestRegisterSuccess(t *testing.T) {
	store := newMockStore()
	engine, sink := newTestEngine(t, testConfig(), store)

	res, err := engine.Register(context.Background(), "alice", "alice@example.com", "P@ssw0rd!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if res.User.ID == "" {
		t.Fatal("expected generated user id")
	}
	if res.User.Role != RoleUser {
		t.Fatalf("expected default role, got %s", res.User.Role)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected registration to log the user in")
	}

	stored := store.user(res.User.ID)
	if stored == nil || !stored.Active {
		t.Fatal("expected active stored user")
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "P@ssw0rd!" {
		t.Fatal("expected stored password to be hashed")
	}

	engine.Close()
	if got := sink.byType(auditEventRegisterSuccess); len(got) != 1 {
		t.Fatalf("expected 1 register_success event, got %d", len(got))
	}
}

func TestRegisterInvalidInput(t *testing.T) {
	store := newMockStore()
	engine, _ := newTestEngine(t, testConfig(), store)

	cases := [][3]string{
		{"", "a@example.com", "pass"},
		{"alice", "", "pass"},
		{"alice", "a@example.com", ""},
	}
	for _, c := range cases {
		if _, err := engine.Register(context.Background(), c[0], c[1], c[2]); !errors.Is(err, ErrInvalidRegistration) {
			t.Fatalf("Register(%q,%q,%q): expected ErrInvalidRegistration, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestRegisterConflict(t *testing.T) {
	store := newMockStore()
	engine, _ := newTestEngine(t, testConfig(), store)
	seedUser(t, engine, store, "alice", "alice@example.com", "P@ssw0rd!")

	if _, err := engine.Register(context.Background(), "alice", "other@example.com", "pass"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate username: expected ErrConflict, got %v", err)
	}
	if _, err := engine.Register(context.Background(), "bob", "alice@example.com", "pass"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricRegisterConflict] != 2 {
		t.Fatalf("expected 2 register conflicts, got %d", snap.Counters[MetricRegisterConflict])
	}
}

func TestRegisterConcurrentSameUsername(t *testing.T) {
	store := newMockStore()
	engine, _ := newTestEngine(t, testConfig(), store)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = engine.Register(context.Background(), "alice", "alice@example.com", "P@ssw0rd!")
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("expected exactly 1 winner, got %d", successes)
	}
	if conflicts != racers-1 {
		t.Fatalf("expected %d conflicts, got %d", racers-1, conflicts)
	}
}
