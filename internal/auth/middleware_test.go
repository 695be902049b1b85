// internal/auth/middleware_test.go
//
// End-to-end middleware tests over httptest with a real token service: the
// 401 (not authenticated) versus 403 (authenticated, wrong tenant) split,
// strict bearer extraction, and the default role.
//
// Run: go test ./internal/auth -v

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edusphere/edusphere/internal/tenant"
	"github.com/edusphere/edusphere/internal/token"
)

func newVerifier(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService("access-secret-t", "refresh-secret-t", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("token.NewService: %v", err)
	}
	return svc
}

func mintAccess(t *testing.T, svc *token.Service, tenantID string, roles ...string) string {
	t.Helper()
	pair, err := svc.IssuePair(token.Subject{
		UserID:   "u-1",
		Email:    "ada@acme.test",
		TenantID: tenantID,
		Roles:    roles,
	})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	return pair.AccessToken
}

// serve runs one request through Authenticate with a tenant scope already
// bound, capturing the identity the handler observes.
func serve(t *testing.T, svc *token.Service, scopeID, authz string) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()

	var seen *Identity
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest("GET", "/api/courses", nil)
	if authz != "" {
		r.Header.Set("Authorization", authz)
	}
	if scopeID != "" {
		r = r.WithContext(tenant.WithScope(r.Context(), &tenant.Scope{Raw: scopeID, ID: tenant.Sanitize(scopeID)}))
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w, seen
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := newVerifier(t)
	w, id := serve(t, svc, "acme", "Bearer "+mintAccess(t, svc, "acme", "instructor"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if id == nil {
		t.Fatal("handler saw no identity")
	}
	if id.UserID != "u-1" || id.TenantID != "acme" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if len(id.Roles) != 1 || id.Roles[0] != "instructor" {
		t.Fatalf("roles = %v, want [instructor]", id.Roles)
	}
}

func TestAuthenticateMissingHeader(t *testing.T) {
	svc := newVerifier(t)
	w, _ := serve(t, svc, "acme", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsMalformedHeaders(t *testing.T) {
	svc := newVerifier(t)
	tok := mintAccess(t, svc, "acme")

	for _, authz := range []string{
		tok,             // bare token, no scheme
		"Basic " + tok,  // wrong scheme
		"Bearer",        // scheme only
		"Bearer   ",     // scheme and spaces
	} {
		w, _ := serve(t, svc, "acme", authz)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%q: status = %d, want 401", authz, w.Code)
		}
	}

	// The scheme word is case-insensitive per RFC 7235.
	w, _ := serve(t, svc, "acme", "bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("lowercase scheme: status = %d, want 200", w.Code)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	svc := newVerifier(t)
	w, _ := serve(t, svc, "acme", "Bearer not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	svc := newVerifier(t)
	pair, err := svc.IssuePair(token.Subject{UserID: "u-1", TenantID: "acme"})
	if err != nil {
		t.Fatalf("IssuePair: %v", err)
	}
	w, _ := serve(t, svc, "acme", "Bearer "+pair.RefreshToken)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// A proven identity asking for the wrong tenant is 403, not 401.
func TestAuthenticateTenantMismatch(t *testing.T) {
	svc := newVerifier(t)
	w, _ := serve(t, svc, "beta", "Bearer "+mintAccess(t, svc, "acme", "tenantAdmin"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

// Sanitization applies to both sides of the tenant cross-check.
func TestAuthenticateTenantCaseVariants(t *testing.T) {
	svc := newVerifier(t)
	w, _ := serve(t, svc, "ACME-CO", "Bearer "+mintAccess(t, svc, "acme_co"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

// An invalid token with a mismatched tenant claim must still be 401: token
// validity is decided before the tenant match.
func TestAuthenticateValidityBeforeTenantMatch(t *testing.T) {
	svc := newVerifier(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token.NowFunc = func() time.Time { return base }
	expired := mintAccess(t, svc, "beta")
	token.NowFunc = func() time.Time { return base.Add(time.Hour) }
	defer func() { token.NowFunc = time.Now }()

	w, _ := serve(t, svc, "acme", "Bearer "+expired)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateDefaultsRole(t *testing.T) {
	svc := newVerifier(t)
	w, id := serve(t, svc, "acme", "Bearer "+mintAccess(t, svc, "acme"))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if id == nil || len(id.Roles) != 1 || id.Roles[0] != DefaultRole {
		t.Fatalf("roles = %v, want [%s]", id.Roles, DefaultRole)
	}
}
