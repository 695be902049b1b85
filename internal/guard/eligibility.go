// internal/guard/eligibility.go
//
// Instructor eligibility.
//
// An instructor may mutate only material they own; tenantAdmin and
// superAdmin may mutate any material in their reach.  This used to be
// re-derived ad hoc at every mutation call site; it lives here so the rule
// cannot drift between handlers.

package guard

import (
	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/rbac"
)

// EnsureInstructorEligibility checks that id may mutate material owned by
// ownerInstructorID.  Tenant ownership must already have been asserted.
func EnsureInstructorEligibility(id *auth.Identity, ownerInstructorID string) error {
	if id == nil {
		return httpx.Forbidden("not eligible")
	}
	if rbac.HasRole(id.Roles, rbac.RoleSuperAdmin) ||
		rbac.HasRole(id.Roles, rbac.RoleTenantAdmin) {
		return nil
	}
	if id.UserID != "" && id.UserID == ownerInstructorID {
		return nil
	}
	return httpx.Forbidden("not the owning instructor")
}
