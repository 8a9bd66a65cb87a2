package userauth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Register creates an account with the default role and logs it in,
// returning the same AuthResult a successful Authenticate would. Username
// and email must be unique; a duplicate returns ErrConflict whether it was
// caught by the pre-check or by the store's unique constraint.
func (e *Engine) Register(ctx context.Context, username, email, pass string) (*AuthResult, error) {
	if username == "" || email == "" || pass == "" {
		return nil, ErrInvalidRegistration
	}

	exists, err := e.store.UserExists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		e.metricInc(MetricRegisterConflict)
		e.emitAudit(ctx, auditEventRegisterConflict, false, "", username, ErrConflict, nil)
		return nil, ErrConflict
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleUser,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	// The pre-check races with concurrent registrations; the store's
	// uniqueness guarantee is authoritative.
	if err := e.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			e.metricInc(MetricRegisterConflict)
			e.emitAudit(ctx, auditEventRegisterConflict, false, "", username, ErrConflict, nil)
			return nil, ErrConflict
		}
		return nil, err
	}

	result, err := e.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.ID, user.Username, nil, nil)
	return result, nil
}
