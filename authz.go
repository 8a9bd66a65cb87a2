package userauth

// Policy selects an authorization rule for Evaluate.
type Policy int

const (
	// PolicyAuthenticated admits any caller with a validated identity.
	PolicyAuthenticated Policy = iota

	// PolicyAdminOnly admits only callers with RoleAdmin.
	PolicyAdminOnly

	// PolicyResourceOwner admits admins, or callers whose ID matches the
	// resource owner's ID.
	PolicyResourceOwner
)

// Evaluate applies a policy to a caller and resource. It is a pure function:
// no store access, no clock, no mutation. Unknown policies deny.
func Evaluate(p Policy, callerRole Role, callerID, resourceOwnerID string) bool {
	switch p {
	case PolicyAuthenticated:
		return callerID != ""
	case PolicyAdminOnly:
		return callerRole == RoleAdmin
	case PolicyResourceOwner:
		if callerRole == RoleAdmin {
			return true
		}
		return callerID != "" && callerID == resourceOwnerID
	default:
		return false
	}
}

// Authorize reports whether a caller may act on a resource owned by
// resourceOwnerID. Admins pass unconditionally; everyone else must own the
// resource.
func Authorize(callerRole Role, callerID, resourceOwnerID string) bool {
	return Evaluate(PolicyResourceOwner, callerRole, callerID, resourceOwnerID)
}
