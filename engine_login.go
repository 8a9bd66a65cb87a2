package userauth

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Authenticate verifies a username/password pair and, on success, issues an
// access token and a refresh token. Unknown usernames and wrong passwords
// are indistinguishable to the caller: both return ErrInvalidCredentials.
//
// Consecutive failures are counted on the account; reaching the configured
// threshold opens a lockout window during which even correct passwords are
// rejected with ErrAccountLocked. Attempts inside the window do not extend
// it.
func (e *Engine) Authenticate(ctx context.Context, username, pass string) (*AuthResult, error) {
	if username == "" || pass == "" {
		e.metricInc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	user, err := e.store.GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", username, ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"reason": "unknown_user"}
			})
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if user.Locked(now) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, user.Username, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	if !e.hasher.Verify(pass, user.PasswordHash) {
		lockedUntil, recErr := e.store.RecordLoginFailure(ctx, user.ID, e.config.Lockout.Threshold, e.config.Lockout.Duration)
		if recErr != nil {
			return nil, recErr
		}

		e.metricInc(MetricLoginFailure)
		if lockedUntil != nil {
			e.metricInc(MetricAccountLocked)
			until := *lockedUntil
			e.emitAudit(ctx, auditEventAccountLocked, false, user.ID, user.Username, ErrAccountLocked, func() map[string]string {
				return map[string]string{
					"locked_until": until.Format(time.RFC3339),
					"threshold":    strconv.Itoa(e.config.Lockout.Threshold),
				}
			})
		} else {
			e.emitAudit(ctx, auditEventLoginFailure, false, user.ID, user.Username, ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"reason": "wrong_password"}
			})
		}
		return nil, ErrInvalidCredentials
	}

	if err := e.store.RecordLoginSuccess(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now

	result, err := e.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, user.ID, user.Username, nil, nil)
	return result, nil
}
