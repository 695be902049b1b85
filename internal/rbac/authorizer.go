// internal/rbac/authorizer.go
//
// Role-based authorization decision.
//
// Context
// -------
// Authorize answers "may this caller act in this tenant at this privilege"
// in five ordered steps:
//
//   1. No identity → DENY.
//   2. superAdmin  → ALLOW unconditionally.  The one designed escape hatch
//      for platform operators; it bypasses both the tenant gate and the
//      role bar.
//   3. Known invocation tenant differing from the identity's tenant → DENY.
//      Tenant isolation outranks role evaluation.
//   4. Endpoint declares no roles → ALLOW (any authenticated role).
//   5. ALLOW iff the caller's maximum rank ≥ the minimum rank among the
//      endpoint's allowed roles.
//
// Object-level ownership is NOT decided here; see internal/guard.  Roles
// answer "may you act in this tenant", guards answer "does this object
// actually belong to it"—both are required.

package rbac

import (
	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/tenant"
)

// Authorize returns true when id may invoke an endpoint restricted to
// allowed, in the context of invocationTenant (raw or sanitized; "" when
// the invocation has no tenant context).
func Authorize(id *auth.Identity, invocationTenant string, allowed []Role) bool {
	if id == nil {
		return false
	}

	if HasRole(id.Roles, RoleSuperAdmin) {
		return true
	}

	if invocationTenant != "" &&
		tenant.Sanitize(invocationTenant) != tenant.Sanitize(id.TenantID) {
		return false
	}

	if len(allowed) == 0 {
		return true
	}

	bar := MinRank(allowed)
	if bar == 0 {
		// Allowed set named only unknown roles; nobody short of superAdmin
		// passes.  Explicit default-deny, not a fallthrough.
		return false
	}
	return MaxRank(id.Roles) >= bar
}
