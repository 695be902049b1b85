// internal/store/content.go
//
// CMS content repository.  Slug is unique per tenant database within a kind.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const contentColumns = `id, tenant_id, kind, slug, title, body, published,
       created_at, updated_at`

// ContentByID fetches one content row.
func ContentByID(ctx context.Context, db *sqlx.DB, id string) (*model.Content, error) {
	const q = `SELECT ` + contentColumns + `
                 FROM content
                WHERE id = ?
                LIMIT 1`
	var c model.Content
	if err := db.GetContext(ctx, &c, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ContentBySlug fetches a published content row by kind and slug.  This is
// the public read path; drafts are invisible to it.
func ContentBySlug(ctx context.Context, db *sqlx.DB, kind, slug string) (*model.Content, error) {
	const q = `SELECT ` + contentColumns + `
                 FROM content
                WHERE kind = ? AND slug = ? AND published = TRUE
                LIMIT 1`
	var c model.Content
	if err := db.GetContext(ctx, &c, q, kind, slug); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

// ContentList lists rows of one kind, optionally published only.
func ContentList(ctx context.Context, db *sqlx.DB, kind string, publishedOnly bool) ([]model.Content, error) {
	q := `SELECT ` + contentColumns + `
            FROM content
           WHERE kind = ?`
	if publishedOnly {
		q += ` AND published = TRUE`
	}
	q += ` ORDER BY created_at DESC`

	var rows []model.Content
	if err := db.SelectContext(ctx, &rows, q, kind); err != nil {
		return nil, mapErr(err)
	}
	return rows, nil
}

// InsertContent persists a new content row.
func InsertContent(ctx context.Context, db *sqlx.DB, c *model.Content) error {
	const q = `INSERT INTO content
                 (id, tenant_id, kind, slug, title, body, published,
                  created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q,
		c.ID, c.TenantID, c.Kind, c.Slug, c.Title, c.Body, c.Published)
	return mapErr(err)
}

// UpdateContent rewrites the mutable attributes of a content row, kind
// included; moving a row between kinds is an ordinary edit.
func UpdateContent(ctx context.Context, db *sqlx.DB, c *model.Content) error {
	const q = `UPDATE content
                  SET kind = ?, slug = ?, title = ?, body = ?, published = ?,
                      updated_at = NOW()
                WHERE id = ?`
	res, err := db.ExecContext(ctx, q, c.Kind, c.Slug, c.Title, c.Body, c.Published, c.ID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteContent removes a content row.
func DeleteContent(ctx context.Context, db *sqlx.DB, id string) error {
	const q = `DELETE FROM content WHERE id = ?`
	res, err := db.ExecContext(ctx, q, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
