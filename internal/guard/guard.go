// internal/guard/guard.go
//
// Resource ownership guards.
//
// Context
// -------
// Roles answer "may this caller act in this tenant"; guards answer "does
// this specific object actually belong to that tenant".  Both are required:
// a role check alone cannot stop an authorized admin of tenant A from
// feeding the API an object id that happens to belong to tenant B.
//
// Modules and chapters carry no tenant id of their own, so every check
// walks the ownership chain up to the tenant-tagged course row, then
// compares sanitized tenant ids.  Declared parent links in the request path
// ("chapter X under module Y") are asserted against the persisted relation
// on the way up; a path that disagrees with the data is Forbidden.
//
// One deliberate distinction: an ancestor row whose tenant id is empty is a
// persistence bug, not a caller error.  That case is BadRequest and logged
// at error severity, never conflated with the Forbidden of an ownership
// mismatch.
//
// superAdmin bypasses all of this; it is the same escape hatch the
// authorizer grants.
//
// Notes
// -----
// • Thin parameterised queries against the tenant-scoped *sqlx.DB.
// • Oxford commas, two spaces after periods.

package guard

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/rbac"
	"github.com/edusphere/edusphere/internal/tenant"
)

//
// Chain lookups
//

// CourseTenant returns the sanitized tenant id that owns courseID.
func CourseTenant(ctx context.Context, db *sqlx.DB, courseID string) (string, error) {
	const q = `SELECT tenant_id FROM course WHERE id = ? AND deleted_at IS NULL LIMIT 1`
	var tenantID sql.NullString
	err := db.QueryRowxContext(ctx, q, courseID).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", httpx.NotFound("course not found")
	}
	if err != nil {
		return "", err
	}
	if !tenantID.Valid || tenantID.String == "" {
		zap.S().Errorw("course row missing tenant linkage", "course", courseID)
		return "", httpx.BadRequest("course has no tenant linkage")
	}
	return tenant.Sanitize(tenantID.String), nil
}

// moduleCourse returns the course id owning moduleID.
func moduleCourse(ctx context.Context, db *sqlx.DB, moduleID string) (string, error) {
	const q = `SELECT course_id FROM module WHERE id = ? LIMIT 1`
	var courseID string
	err := db.QueryRowxContext(ctx, q, moduleID).Scan(&courseID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", httpx.NotFound("module not found")
	}
	if err != nil {
		return "", err
	}
	if courseID == "" {
		zap.S().Errorw("module row missing course linkage", "module", moduleID)
		return "", httpx.BadRequest("module has no course linkage")
	}
	return courseID, nil
}

// chapterModule returns the module id owning chapterID.
func chapterModule(ctx context.Context, db *sqlx.DB, chapterID string) (string, error) {
	const q = `SELECT module_id FROM chapter WHERE id = ? LIMIT 1`
	var moduleID string
	err := db.QueryRowxContext(ctx, q, chapterID).Scan(&moduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", httpx.NotFound("chapter not found")
	}
	if err != nil {
		return "", err
	}
	if moduleID == "" {
		zap.S().Errorw("chapter row missing module linkage", "chapter", chapterID)
		return "", httpx.BadRequest("chapter has no module linkage")
	}
	return moduleID, nil
}

//
// Guards
//

// bypass reports whether id skips ownership checks entirely.
func bypass(id *auth.Identity) bool {
	return id != nil && rbac.HasRole(id.Roles, rbac.RoleSuperAdmin)
}

// assertTenant compares an owner tenant against the caller's.
func assertTenant(id *auth.Identity, ownerTenant string) error {
	if ownerTenant != tenant.Sanitize(id.TenantID) {
		return httpx.Forbidden("resource belongs to another tenant")
	}
	return nil
}

// EnsureCourseAccess verifies courseID belongs to the caller's tenant.
func EnsureCourseAccess(ctx context.Context, db *sqlx.DB, id *auth.Identity, courseID string) error {
	if bypass(id) {
		return nil
	}
	owner, err := CourseTenant(ctx, db, courseID)
	if err != nil {
		return err
	}
	return assertTenant(id, owner)
}

// EnsureModuleAccess verifies moduleID resolves to the caller's tenant.
// When declaredCourseID is non-empty the persisted parent must match it.
func EnsureModuleAccess(ctx context.Context, db *sqlx.DB, id *auth.Identity, declaredCourseID, moduleID string) error {
	if bypass(id) {
		return nil
	}
	courseID, err := moduleCourse(ctx, db, moduleID)
	if err != nil {
		return err
	}
	if declaredCourseID != "" && declaredCourseID != courseID {
		return httpx.Forbidden("module does not belong to the given course")
	}
	owner, err := CourseTenant(ctx, db, courseID)
	if err != nil {
		return err
	}
	return assertTenant(id, owner)
}

// EnsureChapterAccess verifies chapterID resolves to the caller's tenant.
// Non-empty declared parent ids (course and module, as named in the request
// path) must both match the persisted relations on the way up.
func EnsureChapterAccess(ctx context.Context, db *sqlx.DB, id *auth.Identity, declaredCourseID, declaredModuleID, chapterID string) error {
	if bypass(id) {
		return nil
	}
	moduleID, err := chapterModule(ctx, db, chapterID)
	if err != nil {
		return err
	}
	if declaredModuleID != "" && declaredModuleID != moduleID {
		return httpx.Forbidden("chapter does not belong to the given module")
	}
	return EnsureModuleAccess(ctx, db, id, declaredCourseID, moduleID)
}

// EnsureSessionAccess verifies a live session's direct tenant tag.
func EnsureSessionAccess(ctx context.Context, db *sqlx.DB, id *auth.Identity, sessionID string) error {
	if bypass(id) {
		return nil
	}
	const q = `SELECT tenant_id FROM live_session WHERE id = ? LIMIT 1`
	var tenantID sql.NullString
	err := db.QueryRowxContext(ctx, q, sessionID).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return httpx.NotFound("session not found")
	}
	if err != nil {
		return err
	}
	if !tenantID.Valid || tenantID.String == "" {
		zap.S().Errorw("session row missing tenant linkage", "session", sessionID)
		return httpx.BadRequest("session has no tenant linkage")
	}
	return assertTenant(id, tenant.Sanitize(tenantID.String))
}

// EnsureContentAccess verifies a content row's direct tenant tag.
func EnsureContentAccess(ctx context.Context, db *sqlx.DB, id *auth.Identity, contentID string) error {
	if bypass(id) {
		return nil
	}
	const q = `SELECT tenant_id FROM content WHERE id = ? LIMIT 1`
	var tenantID sql.NullString
	err := db.QueryRowxContext(ctx, q, contentID).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) {
		return httpx.NotFound("content not found")
	}
	if err != nil {
		return err
	}
	if !tenantID.Valid || tenantID.String == "" {
		zap.S().Errorw("content row missing tenant linkage", "content", contentID)
		return httpx.BadRequest("content has no tenant linkage")
	}
	return assertTenant(id, tenant.Sanitize(tenantID.String))
}
