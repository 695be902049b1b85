// internal/store/modules.go
//
// Module repository.  Modules are not tenant-tagged; tenancy is inherited
// from the owning course, which the guards enforce before any of these
// functions run.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const moduleColumns = `id, course_id, title, position, created_at, updated_at`

// ModuleByID fetches one module row.
func ModuleByID(ctx context.Context, db *sqlx.DB, id string) (*model.Module, error) {
	const q = `SELECT ` + moduleColumns + `
                 FROM module
                WHERE id = ?
                LIMIT 1`
	var m model.Module
	if err := db.GetContext(ctx, &m, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

// ModulesByCourse lists a course's modules in position order.
func ModulesByCourse(ctx context.Context, db *sqlx.DB, courseID string) ([]model.Module, error) {
	const q = `SELECT ` + moduleColumns + `
                 FROM module
                WHERE course_id = ?
                ORDER BY position ASC`
	var rows []model.Module
	if err := db.SelectContext(ctx, &rows, q, courseID); err != nil {
		return nil, mapErr(err)
	}
	return rows, nil
}

// InsertModule persists a new module.
func InsertModule(ctx context.Context, db *sqlx.DB, m *model.Module) error {
	const q = `INSERT INTO module
                 (id, course_id, title, position, created_at, updated_at)
               VALUES (?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q, m.ID, m.CourseID, m.Title, m.Position)
	return mapErr(err)
}

// UpdateModule rewrites title and position.
func UpdateModule(ctx context.Context, db *sqlx.DB, m *model.Module) error {
	const q = `UPDATE module
                  SET title = ?, position = ?, updated_at = NOW()
                WHERE id = ?`
	res, err := db.ExecContext(ctx, q, m.Title, m.Position, m.ID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteModule removes a module and, via FK cascade, its chapters.
func DeleteModule(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `DELETE FROM module WHERE id = ?`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
