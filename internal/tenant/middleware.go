// internal/tenant/middleware.go
//
// Chi middleware binding each request to its isolated tenant store.
//
// Context
// -------
// Bind is the first tenant-aware stage of the pipeline: it validates the
// `x-tenant-id` header, acquires the per-tenant connection from the
// registry, and stores both in the request context.  Authentication runs
// after Bind so its tenant cross-check can rely on the resolved id.
// Resolution failure is a 400; connection failure is 404 or 500 depending
// on what the registry saw — never a silent fallback to another tenant.

package tenant

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/edusphere/edusphere/internal/httpx"
)

// Bind returns middleware that resolves the tenant and attaches its Scope.
func Bind(reg *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := FromRequest(r)
			if err != nil {
				httpx.WriteError(w, r, err)
				return
			}

			db, err := reg.Get(r.Context(), raw)
			if err != nil {
				zap.S().Errorw("tenant bind failed",
					"tenant", Sanitize(raw),
					"path", r.URL.Path,
					"correlation_id", httpx.CorrelationID(r),
					"err", err,
				)
				httpx.WriteError(w, r, err)
				return
			}

			scope := &Scope{Raw: raw, ID: Sanitize(raw), DB: db}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}
