// internal/tenant/resolver.go
//
// Tenant-id resolution and sanitisation.
//
// Context
// -------
// Every tenant-scoped request carries an `x-tenant-id` header.  Two forms of
// the id exist and must never be confused:
//
//   • raw       — as received, `[a-zA-Z0-9_-]+`, non-empty.
//   • sanitized — lower-cased with hyphens mapped to underscores; the stable
//     key for connection caching and database naming.
//
// Sanitize is idempotent, and it is applied everywhere an id participates in
// a lookup or comparison.  Comparing a raw id against a sanitized one is how
// cross-tenant leakage starts, so no caller outside this package builds its
// own canonical form.
//
// Notes
// -----
// • Pure validation and transform; no I/O, no logging.
// • Oxford commas, two spaces after periods.

package tenant

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/edusphere/edusphere/internal/httpx"
)

// HeaderName is the request header carrying the tenant id.
const HeaderName = "X-Tenant-Id"

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FromRequest returns the raw tenant id from r's header.  Missing, empty,
// and pattern-failing values are all BadRequest.
func FromRequest(r *http.Request) (string, error) {
	raw := r.Header.Get(HeaderName)
	if raw == "" {
		return "", httpx.BadRequest("missing x-tenant-id header")
	}
	if !idPattern.MatchString(raw) {
		return "", httpx.BadRequest("invalid x-tenant-id header")
	}
	return raw, nil
}

// Sanitize converts a raw tenant id to its canonical cache and
// database-naming form: lower case, hyphens replaced with underscores.
// Sanitize(Sanitize(x)) == Sanitize(x) for every valid x.
func Sanitize(raw string) string {
	return strings.ToLower(strings.ReplaceAll(raw, "-", "_"))
}
