// internal/store/chapters.go
//
// Chapter repository.  Tenancy is inherited chapter → module → course; the
// guards walk that chain before these run.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const chapterColumns = `id, module_id, title, body, video_url, position,
       free_preview, created_at, updated_at`

// ChapterByID fetches one chapter row.
func ChapterByID(ctx context.Context, db *sqlx.DB, id string) (*model.Chapter, error) {
	const q = `SELECT ` + chapterColumns + `
                 FROM chapter
                WHERE id = ?
                LIMIT 1`
	var c model.Chapter
	if err := db.GetContext(ctx, &c, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ChaptersByModule lists a module's chapters in position order.
func ChaptersByModule(ctx context.Context, db *sqlx.DB, moduleID string) ([]model.Chapter, error) {
	const q = `SELECT ` + chapterColumns + `
                 FROM chapter
                WHERE module_id = ?
                ORDER BY position ASC`
	var rows []model.Chapter
	if err := db.SelectContext(ctx, &rows, q, moduleID); err != nil {
		return nil, mapErr(err)
	}
	return rows, nil
}

// InsertChapter persists a new chapter.
func InsertChapter(ctx context.Context, db *sqlx.DB, c *model.Chapter) error {
	const q = `INSERT INTO chapter
                 (id, module_id, title, body, video_url, position, free_preview,
                  created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q,
		c.ID, c.ModuleID, c.Title, c.Body, c.VideoURL, c.Position, c.FreePreview)
	return mapErr(err)
}

// UpdateChapter rewrites the mutable attributes of a chapter.
func UpdateChapter(ctx context.Context, db *sqlx.DB, c *model.Chapter) error {
	const q = `UPDATE chapter
                  SET title = ?, body = ?, video_url = ?, position = ?,
                      free_preview = ?, updated_at = NOW()
                WHERE id = ?`
	res, err := db.ExecContext(ctx, q,
		c.Title, c.Body, c.VideoURL, c.Position, c.FreePreview, c.ID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteChapter removes a chapter.
func DeleteChapter(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `DELETE FROM chapter WHERE id = ?`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
