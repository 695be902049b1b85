// internal/httpx/respond.go
//
// JSON response helpers.  One writer for payloads, one for errors; every
// error response is logged with tenant and correlation context so the audit
// trail stays complete even for rejected requests.

package httpx

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// JSON writes v with the given status.  Encoding failures are logged, not
// surfaced; headers are already gone by then.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

// WriteError converts err via FromError and writes the JSON error body.
// Internal errors log at error severity with the wrapped cause; client
// errors log at info so probing shows up in the audit trail without noise.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := FromError(err)

	fields := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", apiErr.Status,
		"code", apiErr.Code,
		"correlation_id", CorrelationID(r),
	}
	if apiErr.Status >= http.StatusInternalServerError {
		zap.S().Errorw("request failed", append(fields, "err", apiErr.Unwrap())...)
	} else {
		zap.S().Infow("request rejected", fields...)
	}

	JSON(w, apiErr.Status, map[string]any{"error": apiErr})
}
