// internal/tenant/context.go
//
// Per-request tenant scope carried through context.Context.  The Bind
// middleware stores a *Scope after resolving the header and acquiring the
// tenant's connection; repositories and guards read it back instead of
// re-deriving either.

package tenant

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Scope is the resolved tenancy of one request.
type Scope struct {
	Raw string   // id as received in the header
	ID  string   // sanitized form; the only key used for comparisons
	DB  *sqlx.DB // connection bound to this tenant's database
}

// ctxKey is unexported to avoid context-key collisions.
type ctxKey struct{}

// WithScope returns a new context carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Scope stored by Bind, or nil when the middleware
// has not run.
func FromContext(ctx context.Context) *Scope {
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}
