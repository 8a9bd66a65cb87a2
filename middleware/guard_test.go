package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopmesh/userauth"
	"github.com/shopmesh/userauth/store"
)

func newGuardedServer(t *testing.T) (*userauth.Engine, http.Handler) {
	t.Helper()

	cfg := userauth.DefaultConfig()
	cfg.JWT.Secret = []byte("test-secret")
	cfg.Password.Cost = 4

	engine, err := userauth.New().
		WithConfig(cfg).
		WithStore(store.NewMemory()).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	handler := Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Error("expected claims on guarded request context")
			http.Error(w, "no claims", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(claims.Username))
	}))

	return engine, handler
}

func TestGuardAcceptsValidBearer(t *testing.T) {
	engine, handler := newGuardedServer(t)

	res, err := engine.Register(context.Background(), "alice", "alice@example.com", "P@ssw0rd!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+res.AccessToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "alice" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}

func TestGuardRejectsMissingAndBadTokens(t *testing.T) {
	_, handler := newGuardedServer(t)

	cases := map[string]string{
		"no header":      "",
		"not bearer":     "Basic abc",
		"empty bearer":   "Bearer ",
		"garbage bearer": "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequirePolicy(t *testing.T) {
	engine, _ := newGuardedServer(t)

	alice, err := engine.Register(context.Background(), "alice", "alice@example.com", "P@ssw0rd!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	bob, err := engine.Register(context.Background(), "bob", "bob@example.com", "P@ssw0rd!")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	owned := Guard(engine)(RequirePolicy(userauth.PolicyResourceOwner, func(r *http.Request) string {
		return r.URL.Query().Get("owner")
	})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	call := func(token, owner string) int {
		req := httptest.NewRequest(http.MethodGet, "/?owner="+owner, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		owned.ServeHTTP(rec, req)
		return rec.Code
	}

	if got := call(alice.AccessToken, alice.User.ID); got != http.StatusNoContent {
		t.Fatalf("owner access: status = %d", got)
	}
	if got := call(bob.AccessToken, alice.User.ID); got != http.StatusForbidden {
		t.Fatalf("foreign access: status = %d", got)
	}
}

func TestRequirePolicyWithoutGuardIs401(t *testing.T) {
	handler := RequirePolicy(userauth.PolicyAuthenticated, nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
