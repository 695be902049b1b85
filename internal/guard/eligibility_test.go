// internal/guard/eligibility_test.go
//
// Run: go test ./internal/guard -v

package guard

import (
	"testing"

	"github.com/edusphere/edusphere/internal/auth"
)

func TestEnsureInstructorEligibility(t *testing.T) {
	cases := []struct {
		name  string
		id    *auth.Identity
		owner string
		allow bool
	}{
		{"nil identity", nil, "u-1", false},
		{"owning instructor", caller("acme"), "u-1", true},
		{"foreign instructor", caller("acme"), "u-2", false},
		{"tenantAdmin over foreign material", caller("acme", "tenantAdmin"), "u-2", true},
		{"superAdmin over foreign material", caller("platform", "superAdmin"), "u-2", true},
		{"student", caller("acme", "student"), "u-2", false},
		{
			"empty ids never match",
			&auth.Identity{UserID: "", TenantID: "acme", Roles: []string{"instructor"}},
			"",
			false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := EnsureInstructorEligibility(tc.id, tc.owner)
			if tc.allow && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.allow && err == nil {
				t.Fatal("expected Forbidden, got nil")
			}
		})
	}
}
