// internal/api/request.go
//
// JSON body decoding and validation.
//
// Context
// -------
// One helper for every handler: strict-decode the body into a tagged struct,
// then run go-playground/validator over it.  Either failure is a 400 with a
// message safe to show the caller.  Unknown fields are rejected so typos in
// client payloads fail loudly instead of silently dropping data.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/edusphere/edusphere/internal/httpx"
)

var validate = validator.New()

// decode reads r's JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return httpx.BadRequest("malformed request body").Wrap(err)
	}
	if err := validate.Struct(dst); err != nil {
		var verr validator.ValidationErrors
		if errors.As(err, &verr) && len(verr) > 0 {
			return httpx.BadRequest("invalid field: " + verr[0].Field()).Wrap(err)
		}
		return httpx.BadRequest("invalid request body").Wrap(err)
	}
	return nil
}
