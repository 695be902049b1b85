// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals and secret-resolves the merged Koanf tree.  Any tag mismatch or
// validation error aborts startup, ensuring the binary never runs with
// partial, malformed, or missing configuration.
//
// The rules that matter here are `required` on the DSN template and both
// token secrets, `contains=%s` on the DSN (the tenant database name must
// have somewhere to go), and `nefield=AccessSecret` on the refresh secret.
// The last one is a security invariant, not a lint: identical secrets would
// let a refresh token pass access-token verification.

package config

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
