// internal/store/users.go
//
// User repository.  Email is unique per tenant database; the duplicate-key
// mapping is what turns a double registration into a 409 upstream.

package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/edusphere/edusphere/internal/model"
)

const userColumns = `id, tenant_id, email, password_hash, name, roles,
       settings, created_at, updated_at, deleted_at`

// UserByEmail fetches a live user row by email.
func UserByEmail(ctx context.Context, db *sqlx.DB, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + `
                 FROM user
                WHERE email = ? AND deleted_at IS NULL
                LIMIT 1`
	var u model.User
	if err := db.GetContext(ctx, &u, q, email); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// UserByID fetches a live user row by id.
func UserByID(ctx context.Context, db *sqlx.DB, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + `
                 FROM user
                WHERE id = ? AND deleted_at IS NULL
                LIMIT 1`
	var u model.User
	if err := db.GetContext(ctx, &u, q, id); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

// InsertUser persists a new user.
func InsertUser(ctx context.Context, db *sqlx.DB, u *model.User) error {
	const q = `INSERT INTO user
                 (id, tenant_id, email, password_hash, name, roles, settings,
                  created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`
	_, err := db.ExecContext(ctx, q,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, u.RolesCSV, u.SettingsJSON)
	return mapErr(err)
}

// UpdateUserSettings replaces the settings JSON blob for id.
func UpdateUserSettings(ctx context.Context, db *sqlx.DB, id, settingsJSON string) error {
	const q = `UPDATE user
                  SET settings = ?, updated_at = NOW()
                WHERE id = ? AND deleted_at IS NULL`
	res, err := db.ExecContext(ctx, q, settingsJSON, id)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
