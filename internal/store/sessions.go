// internal/store/sessions.go
//
// Live-session repository.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const sessionColumns = `id, tenant_id, course_id, instructor_id, title,
       starts_at, duration_mins, meeting_url, status, created_at, updated_at`

// SessionByID fetches one live-session row.
func SessionByID(ctx context.Context, db *sqlx.DB, id string) (*model.LiveSession, error) {
	const q = `SELECT ` + sessionColumns + `
                 FROM live_session
                WHERE id = ?
                LIMIT 1`
	var s model.LiveSession
	if err := db.GetContext(ctx, &s, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// Sessions lists sessions, soonest first.
func Sessions(ctx context.Context, db *sqlx.DB) ([]model.LiveSession, error) {
	const q = `SELECT ` + sessionColumns + `
                 FROM live_session
                ORDER BY starts_at ASC`
	var rows []model.LiveSession
	if err := db.SelectContext(ctx, &rows, q); err != nil {
		return nil, mapErr(err)
	}
	return rows, nil
}

// InsertSession persists a new session in scheduled state.
func InsertSession(ctx context.Context, db *sqlx.DB, s *model.LiveSession) error {
	const q = `INSERT INTO live_session
                 (id, tenant_id, course_id, instructor_id, title, starts_at,
                  duration_mins, meeting_url, status, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q,
		s.ID, s.TenantID, s.CourseID, s.InstructorID, s.Title, s.StartsAt,
		s.DurationMins, s.MeetingURL, s.Status)
	return mapErr(err)
}

// UpdateSessionStatus records a status transition.  Legality of the
// transition is the handler's job; this is a plain write.
func UpdateSessionStatus(ctx context.Context, db *sqlx.DB, id string, status model.SessionStatus) error {
	const q = `UPDATE live_session
                  SET status = ?, updated_at = NOW()
                WHERE id = ?`
	res, err := db.ExecContext(ctx, q, status, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session row.
func DeleteSession(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `DELETE FROM live_session WHERE id = ?`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
