package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	h, err := NewHasher(Config{Cost: 4})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	hash, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "correct-horse" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash %q", hash)
	}

	if !h.Verify("correct-horse", hash) {
		t.Fatal("correct password must verify")
	}
	if h.Verify("wrong-horse", hash) {
		t.Fatal("wrong password must not verify")
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h, err := NewHasher(Config{Cost: 4})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}

	for _, bad := range []string{"", "not-a-hash", "$2a$xx$garbage"} {
		if h.Verify("anything", bad) {
			t.Fatalf("malformed hash %q must not verify", bad)
		}
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h, err := NewHasher(Config{Cost: 4})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	if _, err := h.Hash(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestCostEmbeddedInHash(t *testing.T) {
	h, err := NewHasher(Config{Cost: 5})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	hash, err := h.Hash("pw")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cost, ok := Cost(hash)
	if !ok || cost != 5 {
		t.Fatalf("Cost(%q) = %d, %v", hash, cost, ok)
	}

	// A hasher with a different cost still verifies old hashes; the work
	// factor is read from the hash itself.
	h2, err := NewHasher(Config{Cost: 6})
	if err != nil {
		t.Fatalf("NewHasher failed: %v", err)
	}
	if !h2.Verify("pw", hash) {
		t.Fatal("verification must be independent of the hasher's cost")
	}
}

func TestNewHasherCostBounds(t *testing.T) {
	if _, err := NewHasher(Config{Cost: 99}); err == nil {
		t.Fatal("expected error for out-of-range cost")
	}

	h, err := NewHasher(Config{})
	if err != nil {
		t.Fatalf("default cost rejected: %v", err)
	}
	if h == nil {
		t.Fatal("expected hasher")
	}
}
