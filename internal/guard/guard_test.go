// internal/guard/guard_test.go
//
// Ownership-chain tests over sqlmock: the chapter → module → course → tenant
// walk, declared-parent assertions, the 403/404/400 split, and the
// superAdmin bypass.
//
// Run: go test ./internal/guard -v

package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func caller(tenantID string, roles ...string) *auth.Identity {
	if len(roles) == 0 {
		roles = []string{"instructor"}
	}
	return &auth.Identity{UserID: "u-1", TenantID: tenantID, Roles: roles}
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *httpx.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *httpx.Error with status %d, got %v", status, err)
	}
	if apiErr.Status != status {
		t.Fatalf("status = %d, want %d (err: %v)", apiErr.Status, status, err)
	}
}

func expectCourseTenant(mock sqlmock.Sqlmock, courseID, tenantID string) {
	mock.ExpectQuery("SELECT tenant_id FROM course").
		WithArgs(courseID).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow(tenantID))
}

func expectModuleCourse(mock sqlmock.Sqlmock, moduleID, courseID string) {
	mock.ExpectQuery("SELECT course_id FROM module").
		WithArgs(moduleID).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(courseID))
}

func expectChapterModule(mock sqlmock.Sqlmock, chapterID, moduleID string) {
	mock.ExpectQuery("SELECT module_id FROM chapter").
		WithArgs(chapterID).
		WillReturnRows(sqlmock.NewRows([]string{"module_id"}).AddRow(moduleID))
}

func TestEnsureCourseAccess(t *testing.T) {
	t.Run("same tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectCourseTenant(mock, "c-1", "acme")
		if err := EnsureCourseAccess(context.Background(), db, caller("acme"), "c-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("sanitized comparison", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectCourseTenant(mock, "c-1", "Acme-Co")
		if err := EnsureCourseAccess(context.Background(), db, caller("acme_co"), "c-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("foreign tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectCourseTenant(mock, "c-1", "beta")
		err := EnsureCourseAccess(context.Background(), db, caller("acme"), "c-1")
		wantStatus(t, err, 403)
	})

	t.Run("absent course", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT tenant_id FROM course").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}))
		err := EnsureCourseAccess(context.Background(), db, caller("acme"), "ghost")
		wantStatus(t, err, 404)
	})

	// An empty tenant tag is a persistence fault, never an ownership verdict.
	t.Run("missing tenant linkage", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectCourseTenant(mock, "c-1", "")
		err := EnsureCourseAccess(context.Background(), db, caller("acme"), "c-1")
		wantStatus(t, err, 400)
	})
}

func TestEnsureModuleAccess(t *testing.T) {
	t.Run("chain resolves to caller tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectModuleCourse(mock, "m-1", "c-1")
		expectCourseTenant(mock, "c-1", "acme")
		if err := EnsureModuleAccess(context.Background(), db, caller("acme"), "c-1", "m-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	// The path said course X but the row belongs to course Y.  The walk must
	// stop before the tenant comparison.
	t.Run("declared parent mismatch", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectModuleCourse(mock, "m-1", "c-other")
		err := EnsureModuleAccess(context.Background(), db, caller("acme"), "c-1", "m-1")
		wantStatus(t, err, 403)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("chain resolves to foreign tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectModuleCourse(mock, "m-1", "c-1")
		expectCourseTenant(mock, "c-1", "beta")
		err := EnsureModuleAccess(context.Background(), db, caller("acme"), "c-1", "m-1")
		wantStatus(t, err, 403)
	})

	t.Run("absent module", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT course_id FROM module").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"course_id"}))
		err := EnsureModuleAccess(context.Background(), db, caller("acme"), "", "ghost")
		wantStatus(t, err, 404)
	})
}

func TestEnsureChapterAccess(t *testing.T) {
	t.Run("full chain", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectChapterModule(mock, "ch-1", "m-1")
		expectModuleCourse(mock, "m-1", "c-1")
		expectCourseTenant(mock, "c-1", "acme")
		if err := EnsureChapterAccess(context.Background(), db, caller("acme"), "c-1", "m-1", "ch-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("declared module mismatch", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectChapterModule(mock, "ch-1", "m-other")
		err := EnsureChapterAccess(context.Background(), db, caller("acme"), "c-1", "m-1", "ch-1")
		wantStatus(t, err, 403)
	})

	// The path named a course the chapter's module does not belong to.  The
	// walk must stop at the module-to-course link, before any tenant lookup.
	t.Run("declared course mismatch", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectChapterModule(mock, "ch-1", "m-1")
		expectModuleCourse(mock, "m-1", "c-1")
		err := EnsureChapterAccess(context.Background(), db, caller("acme"), "c-wrong", "m-1", "ch-1")
		wantStatus(t, err, 403)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("expectations: %v", err)
		}
	})

	t.Run("absent chapter", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT module_id FROM chapter").
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"module_id"}))
		err := EnsureChapterAccess(context.Background(), db, caller("acme"), "", "", "ghost")
		wantStatus(t, err, 404)
	})

	t.Run("broken linkage mid-chain", func(t *testing.T) {
		db, mock := newMockDB(t)
		expectChapterModule(mock, "ch-1", "m-1")
		expectModuleCourse(mock, "m-1", "c-1")
		expectCourseTenant(mock, "c-1", "")
		err := EnsureChapterAccess(context.Background(), db, caller("acme"), "", "", "ch-1")
		wantStatus(t, err, 400)
	})
}

func TestEnsureSessionAccess(t *testing.T) {
	t.Run("same tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT tenant_id FROM live_session").
			WithArgs("s-1").
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow("acme"))
		if err := EnsureSessionAccess(context.Background(), db, caller("acme"), "s-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("foreign tenant", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT tenant_id FROM live_session").
			WithArgs("s-1").
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow("beta"))
		err := EnsureSessionAccess(context.Background(), db, caller("acme"), "s-1")
		wantStatus(t, err, 403)
	})

	t.Run("missing tenant linkage", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT tenant_id FROM live_session").
			WithArgs("s-1").
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow(nil))
		err := EnsureSessionAccess(context.Background(), db, caller("acme"), "s-1")
		wantStatus(t, err, 400)
	})
}

func TestEnsureContentAccess(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT tenant_id FROM content").
		WithArgs("ct-1").
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow("beta"))
	err := EnsureContentAccess(context.Background(), db, caller("acme"), "ct-1")
	wantStatus(t, err, 403)
}

// superAdmin skips every walk; no query may run.
func TestSuperAdminBypass(t *testing.T) {
	db, mock := newMockDB(t)
	admin := caller("platform", "superAdmin")

	if err := EnsureCourseAccess(context.Background(), db, admin, "c-1"); err != nil {
		t.Fatalf("course: %v", err)
	}
	if err := EnsureModuleAccess(context.Background(), db, admin, "c-1", "m-1"); err != nil {
		t.Fatalf("module: %v", err)
	}
	if err := EnsureChapterAccess(context.Background(), db, admin, "c-1", "m-1", "ch-1"); err != nil {
		t.Fatalf("chapter: %v", err)
	}
	if err := EnsureSessionAccess(context.Background(), db, admin, "s-1"); err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}
