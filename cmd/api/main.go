// cmd/api/main.go
//
// Edusphere – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Wire the Vault secret resolver when VAULT_ADDR is set, then load and
//     validate the typed config.
//
//  4. Construct the credential, token, and tenant-registry services.  Any
//     failure here is fatal; the process must not serve with a partial
//     security pipeline.
//
//  5. Assemble the router (security headers → request enrichment → tenant
//     bind → authenticate → authorize → handlers) and serve with hardened
//     timeouts until SIGINT/SIGTERM, then drain and close every tenant
//     connection.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/edusphere/edusphere/internal/api"
	"github.com/edusphere/edusphere/internal/config"
	"github.com/edusphere/edusphere/internal/logger"
	"github.com/edusphere/edusphere/internal/password"
	"github.com/edusphere/edusphere/internal/requestinfo"
	"github.com/edusphere/edusphere/internal/secrets"
	"github.com/edusphere/edusphere/internal/server"
	"github.com/edusphere/edusphere/internal/tenant"
	"github.com/edusphere/edusphere/internal/token"
)

const serverEnvPath = "/usr/local/etc/edusphere/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	//
	// ── 1.  Secrets and config ─────────────────────────────────────────
	//
	if os.Getenv("VAULT_ADDR") != "" {
		vaultCli, err := secrets.New(ctx)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		config.SetSecretResolver(vaultCli.Resolve)
		logOut.Infow("vault secret resolver online")
	}

	cfg, err := config.Load()
	if err != nil {
		logOut.Fatalf("load config: %v", err)
	}

	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			// Geo enrichment is optional; boot continues without it.
			logOut.Warnw("geo database unavailable", "path", cfg.Geo.DBPath, "err", err)
		}
	}

	//
	// ── 2.  Security services ──────────────────────────────────────────
	//
	tokens, err := token.NewService(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL,
	)
	if err != nil {
		logOut.Fatalf("token service: %v", err)
	}
	hasher := password.New(cfg.Auth.BcryptCost)

	//
	// ── 3.  Tenant registry (lazy per-tenant pools) ────────────────────
	//
	registry, err := tenant.NewRegistry(cfg.Database)
	if err != nil {
		logOut.Fatalf("tenant registry: %v", err)
	}

	//
	// ── 4.  Router and server ──────────────────────────────────────────
	//
	handler := api.Router(&api.API{
		Tokens:   tokens,
		Hasher:   hasher,
		Registry: registry,
	})

	srv := server.New(cfg.HTTP.ListenAddr, handler)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)

	if err := server.Run(srv, registry.DisconnectAll); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
	logOut.Infow("shutdown complete")
}
