// internal/middleware/security.go
//
// Security-header middleware.
//
// Injects industry-standard headers on every response:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • X-Content-Type-Options     –  MIME-sniffing defence
//   • X-Frame-Options            –  click-jacking defence
//   • Referrer-Policy            –  drops path/query from Referer
//   • Cache-Control: no-store    –  token-bearing JSON must never be cached
//
// Notes
// -----
// • Headers are set *before* next.ServeHTTP: JSON handlers call WriteHeader
//   immediately, and header writes after that point are silently discarded.
//   A handler that needs a different value overrides it before writing.
// • Edusphere runs behind a TLS-terminating proxy, but HSTS is still useful
//   because browsers see the tenant's domain as HTTPS.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains; preload"
		nosn  = "nosniff"
		xfo   = "DENY"
		refer = "strict-origin-when-cross-origin"
		cache = "no-store"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("X-Content-Type-Options", nosn)
		h.Set("X-Frame-Options", xfo)
		h.Set("Referrer-Policy", refer)
		h.Set("Cache-Control", cache)

		next.ServeHTTP(w, r)
	})
}
