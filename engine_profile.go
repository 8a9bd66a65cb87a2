package userauth

import (
	"context"
	"errors"
)

// GetProfile returns a user's public profile, served from the Redis cache
// when one is wired. Cache failures degrade to store reads; they are never
// surfaced to the caller.
func (e *Engine) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	if e.profiles != nil {
		if p, ok := e.profiles.Get(ctx, userID); ok {
			e.metricInc(MetricProfileCacheHit)
			return &p, nil
		}
		e.metricInc(MetricProfileCacheMiss)
	}

	user, err := e.store.GetActiveUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	if e.profiles != nil {
		e.profiles.Set(ctx, userID, profile)
	}
	return &profile, nil
}

// ListProfiles returns one page of active users' profiles, oldest first.
// Page numbers start at 1; out-of-range values fall back to the defaults
// (page 1, size 10).
func (e *Engine) ListProfiles(ctx context.Context, page, pageSize int) ([]Profile, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	users, err := e.store.ListActiveUsers(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Profile())
	}
	return profiles, nil
}

// UpdateProfile applies a patch to a user's mutable fields and returns the
// updated profile. Empty patch fields are left untouched. New usernames and
// emails must stay unique or the call fails with ErrConflict.
//
// A patch that tries to grant RoleAdmin is not applied: the role keeps its
// current value, the rejection is audited, and the rest of the patch goes
// through. Other role values are applied as given.
func (e *Engine) UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*Profile, error) {
	user, err := e.store.GetActiveUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Username != "" {
		user.Username = patch.Username
	}
	if patch.Email != "" {
		user.Email = patch.Email
	}
	if patch.Role != "" && patch.Role != user.Role {
		if patch.Role == RoleAdmin {
			// TODO: route Admin grants through a verification step instead
			// of silently skipping them.
			e.emitAudit(ctx, auditEventRoleChangeRejected, false, user.ID, user.Username, ErrUnauthorized, func() map[string]string {
				return map[string]string{"requested_role": string(RoleAdmin)}
			})
		} else {
			user.Role = patch.Role
		}
	}

	if err := e.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	if e.profiles != nil {
		e.profiles.Invalidate(ctx, userID)
	}

	e.metricInc(MetricProfileUpdated)
	e.emitAudit(ctx, auditEventProfileUpdated, true, user.ID, user.Username, nil, nil)

	profile := user.Profile()
	return &profile, nil
}

// Deactivate marks an account inactive. Deactivated accounts cannot log in,
// refresh, or appear in listings; their refresh tokens die at next use. It
// reports false when the user does not exist, true once the account is
// inactive — deactivating twice is not an error.
func (e *Engine) Deactivate(ctx context.Context, userID string) (bool, error) {
	user, err := e.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if user.Active {
		user.Active = false
		if err := e.store.UpdateUser(ctx, user); err != nil {
			return false, err
		}
	}

	if e.profiles != nil {
		e.profiles.Invalidate(ctx, userID)
	}

	e.metricInc(MetricAccountDeactivated)
	e.emitAudit(ctx, auditEventAccountDeactivated, true, user.ID, user.Username, nil, nil)
	return true, nil
}
