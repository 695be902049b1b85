// internal/api/router_test.go
//
// Pipeline tests through the assembled router: tenant binding, the 400 →
// 401 → 403 ladder, and the role gates declared in the route table.  The
// registry opener is swapped for sqlmock so no MySQL is involved.
//
// Run: go test ./internal/api -v

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/config"
	"github.com/edusphere/edusphere/internal/tenant"
	"github.com/edusphere/edusphere/internal/token"
)

// newPipeline builds a router whose registry hands out one sqlmock pool for
// every tenant.
func newPipeline(t *testing.T) (*API, http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	a := newTestAPI(t)

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 16; i++ {
		mock.ExpectPing()
	}
	t.Cleanup(func() { _ = db.Close() })

	reg, err := tenant.NewRegistry(config.Database{
		BaseDSN: "edu:edu@tcp(localhost:3306)/%s?parseTime=true",
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	reg.SetOpener(func(ctx context.Context, dsn string) (*sqlx.DB, error) {
		return sqlx.NewDb(db, "sqlmock"), nil
	})
	a.Registry = reg

	return a, Router(a), mock
}

func accessFor(t *testing.T, a *API, tenantID string, roles ...string) string {
	t.Helper()
	pair, err := a.Tokens.IssuePair(token.Subject{
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

func TestRouterHealthz(t *testing.T) {
	_, h, _ := newPipeline(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "active_tenants") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterRequiresTenantHeader(t *testing.T) {
	_, h, _ := newPipeline(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/api/courses", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRouterRequiresToken(t *testing.T) {
	_, h, _ := newPipeline(t)

	r := httptest.NewRequest("GET", "/api/courses", nil)
	r.Header.Set(tenant.HeaderName, "acme")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

// A student may list courses but not create them.
func TestRouterRoleGates(t *testing.T) {
	a, h, mock := newPipeline(t)
	tok := accessFor(t, a, "acme", "student")

	t.Run("list allowed", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM course").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "tenant_id", "instructor_id", "title", "slug", "description",
				"price_cents", "commission_rate", "published", "created_at",
				"updated_at", "deleted_at",
			}))

		r := httptest.NewRequest("GET", "/api/courses", nil)
		r.Header.Set(tenant.HeaderName, "acme")
		r.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("create denied", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/courses", strings.NewReader(`{}`))
		r.Header.Set(tenant.HeaderName, "acme")
		r.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}

// A chapter fetched through a course the module does not belong to must be
// refused even when every row is tenant-local: the path's declared parents
// are part of the ownership claim.
func TestRouterChapterDeclaredCourse(t *testing.T) {
	a, h, mock := newPipeline(t)
	tok := accessFor(t, a, "acme", "instructor")

	mock.ExpectQuery("SELECT module_id FROM chapter").
		WithArgs("ch-1").
		WillReturnRows(sqlmock.NewRows([]string{"module_id"}).AddRow("m-1"))
	mock.ExpectQuery("SELECT course_id FROM module").
		WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow("c-1"))

	r := httptest.NewRequest("GET", "/api/courses/c-wrong/modules/m-1/chapters/ch-1", nil)
	r.Header.Set(tenant.HeaderName, "acme")
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 (body: %s)", w.Code, w.Body.String())
	}
}

// A token minted for tenant A is refused under tenant B's header even though
// it is perfectly valid.
func TestRouterCrossTenantToken(t *testing.T) {
	a, h, _ := newPipeline(t)
	tok := accessFor(t, a, "acme", "tenantAdmin")

	r := httptest.NewRequest("GET", "/api/courses", nil)
	r.Header.Set(tenant.HeaderName, "beta")
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

// An expired token under a mismatched tenant is still 401; validity is
// decided before the tenant match.
func TestRouterExpiredBeatsMismatch(t *testing.T) {
	a, h, _ := newPipeline(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token.NowFunc = func() time.Time { return base }
	expired := accessFor(t, a, "beta", "student")
	token.NowFunc = func() time.Time { return base.Add(time.Hour) }
	defer func() { token.NowFunc = time.Now }()

	r := httptest.NewRequest("GET", "/api/courses", nil)
	r.Header.Set(tenant.HeaderName, "acme")
	r.Header.Set("Authorization", "Bearer "+expired)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
