// internal/rbac/role.go
//
// Role hierarchy as an explicit total order.
//
// Context
// -------
// Roles are totally ordered by privilege:
//
//	student < instructor < tenantAdmin < superAdmin
//
// A caller may hold several roles; their effective privilege is the maximum.
// The order is monotonic on purpose: a tenantAdmin can do anything an
// instructor-only endpoint permits without every endpoint enumerating the
// roles beneath its nominal requirement.
//
// Role names unknown to this node rank below student and can never satisfy
// a requirement, but they do not error—tokens minted by newer deployments
// must not 500 on older nodes.

package rbac

// Role is a named privilege level.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstructor  Role = "instructor"
	RoleTenantAdmin Role = "tenantAdmin"
	RoleSuperAdmin  Role = "superAdmin"
)

// rank is the total order.  Higher outranks lower.
var rank = map[Role]int{
	RoleStudent:     1,
	RoleInstructor:  2,
	RoleTenantAdmin: 3,
	RoleSuperAdmin:  4,
}

// Rank returns a role's position in the order, or 0 for unknown names.
func Rank(r Role) int { return rank[r] }

// MaxRank returns the highest rank among names.  Unknown names contribute 0.
func MaxRank(names []string) int {
	max := 0
	for _, n := range names {
		if rk := Rank(Role(n)); rk > max {
			max = rk
		}
	}
	return max
}

// MinRank returns the lowest rank among roles, i.e. the effective bar an
// endpoint sets.  Empty or all-unknown input yields 0.
func MinRank(roles []Role) int {
	min := 0
	for _, r := range roles {
		rk := Rank(r)
		if rk == 0 {
			continue
		}
		if min == 0 || rk < min {
			min = rk
		}
	}
	return min
}

// HasRole reports whether names contains exactly r.
func HasRole(names []string, r Role) bool {
	for _, n := range names {
		if Role(n) == r {
			return true
		}
	}
	return false
}
