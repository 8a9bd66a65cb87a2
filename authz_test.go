package userauth

import "testing"

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name    string
		role    Role
		caller  string
		owner   string
		allowed bool
	}{
		{"admin over any resource", RoleAdmin, "1", "9", true},
		{"admin over own resource", RoleAdmin, "1", "1", true},
		{"user over own resource", RoleUser, "42", "42", true},
		{"user over foreign resource", RoleUser, "42", "7", false},
		{"empty caller id", RoleUser, "", "", false},
		{"unknown role, not owner", Role("Auditor"), "1", "2", false},
		{"unknown role, owner", Role("Auditor"), "1", "1", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.role, tc.caller, tc.owner); got != tc.allowed {
				t.Fatalf("Authorize(%s, %q, %q) = %v, want %v", tc.role, tc.caller, tc.owner, got, tc.allowed)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	if !Evaluate(PolicyAuthenticated, RoleUser, "42", "") {
		t.Fatal("authenticated caller must pass PolicyAuthenticated")
	}
	if Evaluate(PolicyAuthenticated, RoleUser, "", "") {
		t.Fatal("anonymous caller must fail PolicyAuthenticated")
	}
	if !Evaluate(PolicyAdminOnly, RoleAdmin, "1", "") {
		t.Fatal("admin must pass PolicyAdminOnly")
	}
	if Evaluate(PolicyAdminOnly, RoleUser, "1", "") {
		t.Fatal("non-admin must fail PolicyAdminOnly")
	}
	if Evaluate(Policy(99), RoleAdmin, "1", "1") {
		t.Fatal("unknown policy must deny")
	}
}
