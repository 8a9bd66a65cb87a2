package userauth

import (
	"context"
	"fmt"
	"time"

	"github.com/shopmesh/userauth/cache"
	"github.com/shopmesh/userauth/internal"
	"github.com/shopmesh/userauth/jwt"
	"github.com/shopmesh/userauth/password"
)

// Engine is the authentication core. Construct it with New().Build(); the
// zero value is not usable. All methods are safe for concurrent use.
type Engine struct {
	config   Config
	store    CredentialStore
	hasher   *password.Hasher
	signer   *jwt.Manager
	profiles *cache.Cache[Profile]
	audit    *auditDispatcher
	metrics  *Metrics
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close returns.
func (e *Engine) Close() {
	e.audit.Close()
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	return e.metrics.Snapshot()
}

// AuditDropped returns the number of audit events discarded because the
// dispatch buffer was full.
func (e *Engine) AuditDropped() uint64 {
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

// ValidateAccess verifies an access token and returns its claims. Any
// failure, expiry included, comes back as ErrUnauthorized.
func (e *Engine) ValidateAccess(ctx context.Context, token string) (*jwt.AccessClaims, error) {
	start := time.Now()
	claims, err := e.signer.Parse(token)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return claims, nil
}

// issueTokens signs an access token and persists a fresh refresh token for
// the user. Shared by login, registration, and refresh.
func (e *Engine) issueTokens(ctx context.Context, user *User) (*AuthResult, error) {
	access, expiresAt, err := e.signer.Issue(user.ID, user.Username, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	refresh, err := internal.NewRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := &RefreshToken{
		Token:       refresh,
		UserID:      user.ID,
		ExpiresAt:   now.Add(e.config.Refresh.TTL),
		Active:      true,
		CreatedAt:   now,
		CreatedByIP: clientIPFromContext(ctx),
	}
	if err := e.store.CreateRefreshToken(ctx, row); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         user.Profile(),
	}, nil
}
