// internal/store/store.go
//
// Shared helpers for the tenant-database repositories.
//
// Context
// -------
// Every repository function takes a context and the request's tenant-scoped
// *sqlx.DB (from tenant.FromContext).  The functions are thin parameterised
// queries; callers own transactions and caching.  sql.ErrNoRows is always
// mapped to ErrNotFound so handlers never sniff driver errors.

package store

import (
	"database/sql"
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("store: not found")

// ErrDuplicate is returned on unique-key violations (MySQL error 1062).
var ErrDuplicate = errors.New("store: duplicate key")

// mapErr normalises driver errors into the two sentinels above.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if strings.Contains(err.Error(), "1062") {
		return ErrDuplicate
	}
	return err
}
