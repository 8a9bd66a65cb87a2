package userauth

import (
	"context"
	"errors"
	"time"

	"github.com/shopmesh/userauth/internal"
)

// revocationReasonRotated marks tokens retired by normal rotation.
const revocationReasonRotated = "Replaced by new token"

// RefreshSession exchanges a live refresh token for a new access token and
// a new refresh token, atomically retiring the presented one. Every failure
// is ErrInvalidToken; the caller never learns whether the token was unknown,
// expired, revoked, or already rotated.
//
// Presenting a token that was already rotated is a replay signal: it is
// rejected like any other dead token, but counted and audited separately.
func (e *Engine) RefreshSession(ctx context.Context, presented string) (*AuthResult, error) {
	if presented == "" {
		e.metricInc(MetricRefreshFailure)
		return nil, ErrInvalidToken
	}

	row, err := e.store.GetRefreshToken(ctx, presented)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidToken) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshInvalid, false, "", "", ErrInvalidToken, func() map[string]string {
				return map[string]string{"token_prefix": tokenPrefix(presented)}
			})
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !row.Usable(now) {
		e.metricInc(MetricRefreshFailure)
		if row.ReplacedByToken != "" {
			e.metricInc(MetricRefreshReuseSignal)
			e.emitAudit(ctx, auditEventRefreshReuseSignal, false, row.UserID, "", ErrInvalidToken, func() map[string]string {
				return map[string]string{
					"token_prefix":       tokenPrefix(presented),
					"replaced_by_prefix": tokenPrefix(row.ReplacedByToken),
				}
			})
		} else {
			e.emitAudit(ctx, auditEventRefreshInvalid, false, row.UserID, "", ErrInvalidToken, func() map[string]string {
				return map[string]string{"token_prefix": tokenPrefix(presented)}
			})
		}
		return nil, ErrInvalidToken
	}

	user, err := e.store.GetUserByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			e.metricInc(MetricRefreshFailure)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, auditEventRefreshInvalid, false, user.ID, user.Username, ErrInvalidToken, func() map[string]string {
			return map[string]string{"reason": "account_inactive"}
		})
		return nil, ErrInvalidToken
	}

	nextToken, err := internal.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	ip := clientIPFromContext(ctx)
	next := &RefreshToken{
		Token:       nextToken,
		UserID:      user.ID,
		ExpiresAt:   now.Add(e.config.Refresh.TTL),
		Active:      true,
		CreatedAt:   now,
		CreatedByIP: ip,
	}

	// The rotation is a compare-and-swap on the presented token: when two
	// requests race with the same token, exactly one insert lands.
	if err := e.store.RotateRefreshToken(ctx, presented, next, ip, revocationReasonRotated, now); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, auditEventRefreshInvalid, false, user.ID, user.Username, ErrInvalidToken, func() map[string]string {
				return map[string]string{"reason": "rotation_lost", "token_prefix": tokenPrefix(presented)}
			})
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	access, expiresAt, err := e.signer.Issue(user.ID, user.Username, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, auditEventRefreshSuccess, true, user.ID, user.Username, nil, func() map[string]string {
		return map[string]string{"token_prefix": tokenPrefix(presented)}
	})

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: nextToken,
		ExpiresAt:    expiresAt,
		User:         user.Profile(),
	}, nil
}
