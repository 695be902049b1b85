// internal/tenant/registry.go
//
// Per-tenant connection registry.
//
// Context
// -------
// Each tenant's data lives in its own MySQL database named
// `<prefix>_<sanitizedTenantID>`.  The registry maps a sanitized tenant id
// to a lazily-opened, cached *sqlx.DB and owns the whole lifecycle:
//
//   • first access opens the pool, coalesced through singleflight so N
//     concurrent first requests for a brand-new tenant still perform
//     exactly one open,
//   • cached handles are pinged on acquisition; a broken handle is evicted
//     and reopened rather than silently reused,
//   • DisconnectAll swaps the cache out atomically, then closes the old
//     handles, so in-flight closes never interleave with new opens for the
//     same key.
//
// At most one live handle exists per sanitized id at any time.
//
// Notes
// -----
// • The opener is injectable so tests can substitute sqlmock pools.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/edusphere/edusphere/internal/config"
	"github.com/edusphere/edusphere/internal/database"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/metrics"
)

// ErrRegistryClosed is returned by Get after DisconnectAll.
var ErrRegistryClosed = errors.New("tenant: registry is shut down")

// Opener abstracts database.OpenWithOptions for tests.
type Opener func(ctx context.Context, dsn string) (*sqlx.DB, error)

// Registry owns one *sqlx.DB per sanitized tenant id.
type Registry struct {
	dsnTemplate string // single %s verb receives the database name
	prefix      string
	open        Opener
	sfg         singleflight.Group

	mu     sync.Mutex
	conns  map[string]*sqlx.DB
	closed bool
}

// NewRegistry builds a registry from the database config section.  A missing
// DSN template is fatal: the process cannot serve any tenant without it.
func NewRegistry(cfg config.Database) (*Registry, error) {
	if cfg.BaseDSN == "" {
		return nil, errors.New("tenant: database base_dsn is not configured")
	}
	prefix := cfg.TenantPrefix
	if prefix == "" {
		prefix = "tenant"
	}
	opts := database.Options{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: database.DefaultOptions().ConnMaxLifetime,
	}
	return &Registry{
		dsnTemplate: cfg.BaseDSN,
		prefix:      prefix,
		open: func(ctx context.Context, dsn string) (*sqlx.DB, error) {
			return database.OpenWithOptions(ctx, dsn, opts)
		},
		conns: make(map[string]*sqlx.DB),
	}, nil
}

// SetOpener replaces the connection opener.  Test hook.
func (g *Registry) SetOpener(fn Opener) { g.open = fn }

// DBName returns the tenant database name for a raw or sanitized id.  The
// `<prefix>_<sanitized>` convention is a wire-format contract shared with
// ops tooling; do not change it here alone.
func (g *Registry) DBName(id string) string {
	return g.prefix + "_" + Sanitize(id)
}

// Get returns the live connection for tenantID, opening it on first use.
// The id may be raw or sanitized; the cache key is always the sanitized
// form.
func (g *Registry) Get(ctx context.Context, tenantID string) (*sqlx.DB, error) {
	key := Sanitize(tenantID)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, ErrRegistryClosed
	}
	db, ok := g.conns[key]
	g.mu.Unlock()

	if ok {
		// Broken handles are evicted, never silently reused.  The ping costs
		// one pooled round-trip and is what turns a dead tenant database
		// into a recoverable, tenant-isolated failure.
		if err := db.PingContext(ctx); err == nil {
			return db, nil
		}
		g.evict(key, db)
	}

	v, err, _ := g.sfg.Do(key, func() (interface{}, error) {
		// Double-check after the singleflight barrier; a concurrent caller
		// may have populated the cache while we queued.
		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			return nil, ErrRegistryClosed
		}
		if db, ok := g.conns[key]; ok {
			g.mu.Unlock()
			return db, nil
		}
		g.mu.Unlock()

		dsn := fmt.Sprintf(g.dsnTemplate, g.prefix+"_"+key)
		db, err := g.open(ctx, dsn)
		if err != nil {
			metrics.TenantOpenErrorsTotal.Inc()
			return nil, mapOpenError(key, err)
		}

		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			_ = db.Close()
			return nil, ErrRegistryClosed
		}
		g.conns[key] = db
		g.mu.Unlock()

		metrics.TenantOpenTotal.Inc()
		metrics.ActiveTenants.Inc()
		zap.S().Infow("tenant connection opened", "tenant", key)
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*sqlx.DB), nil
}

// evict removes key iff it still maps to stale, then closes stale.  A racing
// Get that already replaced the entry is left alone.
func (g *Registry) evict(key string, stale *sqlx.DB) {
	g.mu.Lock()
	if cur, ok := g.conns[key]; ok && cur == stale {
		delete(g.conns, key)
		metrics.TenantEvictTotal.Inc()
		metrics.ActiveTenants.Dec()
	}
	g.mu.Unlock()

	if err := stale.Close(); err != nil {
		zap.S().Warnw("tenant connection close failed", "tenant", key, "err", err)
	}
	zap.S().Warnw("tenant connection evicted", "tenant", key)
}

// DisconnectAll closes every cached connection.  The cache is cleared in one
// critical section before any Close runs, so a slow or failing close for one
// tenant can neither block another tenant's close nor race a fresh open on
// the same key.  Individual failures are logged and do not stop the sweep.
func (g *Registry) DisconnectAll() {
	g.mu.Lock()
	old := g.conns
	g.conns = make(map[string]*sqlx.DB)
	g.closed = true
	g.mu.Unlock()

	for key, db := range old {
		if err := db.Close(); err != nil {
			zap.S().Warnw("tenant connection close failed", "tenant", key, "err", err)
			continue
		}
		zap.S().Infow("tenant connection closed", "tenant", key)
	}
	metrics.ActiveTenants.Set(0)
}

// Len reports the number of cached connections.  Used by tests and the
// health endpoint.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.conns)
}

// mapOpenError distinguishes "this tenant has no database" (a client-visible
// 404) from infrastructure failures (500).  MySQL reports the former as
// error 1049; match on the code without importing driver error types.
func mapOpenError(key string, err error) error {
	if strings.Contains(err.Error(), "1049") {
		return httpx.NotFound("unknown tenant").Wrap(err)
	}
	return httpx.Internal("tenant database unavailable").Wrap(err)
}
