// internal/httpx/requestid.go
//
// Correlation-id extraction.
//
// Context
// -------
// Upstream proxies stamp requests with `X-Request-Id` or `X-Correlation-Id`.
// We consume these (first value wins when repeated), never mint our own, and
// thread the value through every log line so one request can be traced across
// the pipeline stages.

package httpx

import "net/http"

// Correlation headers, checked in order.
var correlationHeaders = []string{"X-Request-Id", "X-Correlation-Id"}

// CorrelationID returns the first correlation header value present on r, or
// "" when the request carries none.
func CorrelationID(r *http.Request) string {
	for _, h := range correlationHeaders {
		if vals := r.Header.Values(h); len(vals) > 0 && vals[0] != "" {
			return vals[0]
		}
	}
	return ""
}
