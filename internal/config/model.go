// internal/config/model.go
//
// Typed configuration model for Edusphere.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `EDU_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved through
// the secrets client *after* unmarshalling, so the rest of the app only ever
// sees plain strings.  Validation happens immediately after resolution; the
// app fails fast if required fields are missing or the two token secrets are
// equal.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

//
// Database section
//

// Database describes the per-tenant MySQL layout.  BaseDSN is a template
// whose single %s verb receives the tenant database name, so operators can
// tweak host, port, or flags without code changes.  The derived database
// name is always `<tenant_prefix>_<sanitizedTenantID>`—ops tooling and
// migrations depend on that exact convention.
type Database struct {
	BaseDSN      string `koanf:"base_dsn"      validate:"required,contains=%s"`
	TenantPrefix string `koanf:"tenant_prefix" validate:"required"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
}

//
// Auth section
//

// Auth holds token-signing secrets and credential policy.  The two secrets
// MUST differ—a refresh token must never verify against the access secret,
// even incidentally—so the `nefield` rule is load-bearing, not cosmetic.
type Auth struct {
	AccessSecret  string        `koanf:"access_secret"  validate:"required"`
	RefreshSecret string        `koanf:"refresh_secret" validate:"required,nefield=AccessSecret"`
	AccessTTL     time.Duration `koanf:"access_ttl"     validate:"required"`
	RefreshTTL    time.Duration `koanf:"refresh_ttl"    validate:"required,gtefield=AccessTTL"`
	BcryptCost    int           `koanf:"bcrypt_cost"`
}

//
// Geo section (optional)
//

// Geo points at a GeoLite2 database for request enrichment.  Empty path
// disables geo lookups; nothing in the pipeline requires them.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or EDU_ROOT override) so later code can build
// absolute file paths.
type Paths struct {
	Root string // EDU_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
