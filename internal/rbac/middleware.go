// internal/rbac/middleware.go
//
// Chi middleware helpers that enforce RBAC.

package rbac

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/metrics"
	"github.com/edusphere/edusphere/internal/tenant"
)

// Require restricts an endpoint to the given roles.  An empty list means
// "any authenticated caller".  Runs after auth.Authenticate; a missing
// identity at this point is a pipeline wiring bug and is reported as 500,
// not 401.
func Require(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := auth.FromContext(r.Context())
			if !ok {
				zap.S().Errorw("rbac: no identity after auth middleware",
					"path", r.URL.Path,
					"correlation_id", httpx.CorrelationID(r),
				)
				httpx.WriteError(w, r, httpx.Internal("authentication context missing"))
				return
			}

			invocationTenant := ""
			if scope := tenant.FromContext(r.Context()); scope != nil {
				invocationTenant = scope.ID
			}

			if !Authorize(id, invocationTenant, allowed) {
				metrics.AuthDecisionsTotal.WithLabelValues("role_denied").Inc()
				zap.S().Infow("authorization denied",
					"user", id.UserID,
					"roles", id.Roles,
					"tenant", invocationTenant,
					"path", r.URL.Path,
					"correlation_id", httpx.CorrelationID(r),
				)
				httpx.WriteError(w, r, httpx.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
