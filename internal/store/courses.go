// internal/store/courses.go
//
// Course repository.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const courseColumns = `id, tenant_id, instructor_id, title, slug, description,
       price_cents, commission_rate, published, created_at, updated_at,
       deleted_at`

// CourseByID fetches a live course row.
func CourseByID(ctx context.Context, db *sqlx.DB, id string) (*model.Course, error) {
	const q = `SELECT ` + courseColumns + `
                 FROM course
                WHERE id = ? AND deleted_at IS NULL
                LIMIT 1`
	var c model.Course
	if err := db.GetContext(ctx, &c, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// Courses lists live courses, newest first.  publishedOnly restricts the
// list to published rows (the student-facing view).
func Courses(ctx context.Context, db *sqlx.DB, publishedOnly bool) ([]model.Course, error) {
	q := `SELECT ` + courseColumns + `
            FROM course
           WHERE deleted_at IS NULL`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	var rows []model.Course
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, mapErr(err)
	}
	return rows, nil
}

// InsertCourse persists a new course.
func InsertCourse(ctx context.Context, db *sqlx.DB, c *model.Course) error {
	const q = `INSERT INTO course
                 (id, tenant_id, instructor_id, title, slug, description,
                  price_cents, commission_rate, published, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q,
		c.ID, c.TenantID, c.InstructorID, c.Title, c.Slug, c.Description,
		c.PriceCents, c.CommissionRate, c.Published)
	return mapErr(err)
}

// UpdateCourse rewrites the mutable attributes of a course.
func UpdateCourse(ctx context.Context, db *sqlx.DB, c *model.Course) error {
	const q = `UPDATE course
                  SET title = ?, slug = ?, description = ?, price_cents = ?,
                      commission_rate = ?, updated_at = NOW()
                WHERE id = ? AND deleted_at IS NULL`
	res, err := db.ExecContext(ctx, q,
		c.Title, c.Slug, c.Description, c.PriceCents, c.CommissionRate, c.ID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCoursePublished flips the publish flag.
func SetCoursePublished(ctx context.Context, db *sqlx.DB, id string, published bool) error {
	const q = `UPDATE course
                  SET published = ?, updated_at = NOW()
                WHERE id = ? AND deleted_at IS NULL`
	res, err := db.ExecContext(ctx, q, published, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCourse soft-deletes a course.
func DeleteCourse(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `UPDATE course
                  SET deleted_at = NOW()
                WHERE id = ? AND deleted_at IS NULL`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
