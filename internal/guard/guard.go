// Package guard makes the access decision for role-gated navigation
// targets. The decision function is pure so the full table can be
// tested without a running server.
package guard

import (
	"github.com/medico-health/portal-api/internal/profile"
	"github.com/medico-health/portal-api/internal/session"
)

type Decision int

const (
	// Loading: the session is still bootstrapping. Render a
	// placeholder, never partial content and never a redirect.
	Loading Decision = iota
	Denied
	Allowed
)

// Reason qualifies a denial for user messaging. Every denial
// redirects to the sign-in page regardless of reason.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotAuthenticated
	ReasonProfileMissing
	ReasonRoleMismatch
)

type Result struct {
	Decision Decision
	Reason   Reason
}

// Evaluate decides whether the session may render a page requiring
// the given role. A nil requiredRole means any authenticated session
// is allowed.
func Evaluate(st session.State, requiredRole *profile.Role) Result {
	if st.Loading {
		return Result{Decision: Loading}
	}
	if st.Identity == nil {
		return Result{Decision: Denied, Reason: ReasonNotAuthenticated}
	}
	if requiredRole == nil {
		return Result{Decision: Allowed}
	}
	if st.Profile == nil {
		return Result{Decision: Denied, Reason: ReasonProfileMissing}
	}
	if st.Profile.Role != *requiredRole {
		return Result{Decision: Denied, Reason: ReasonRoleMismatch}
	}
	return Result{Decision: Allowed}
}
