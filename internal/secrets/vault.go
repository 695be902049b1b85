// internal/secrets/vault.go
//
// Vault client wrapper for Edusphere.
//
// Context
// -------
//   - Concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - Adds background token renewal, KV-v2 helpers, and per-key caching.
//   - Config values of the form `vault:<mount/path>#<key>` (token signing
//     secrets, the DSN template) are resolved through Resolve, which the
//     config loader calls via its registered SecretResolver.
//
// Public workflow
// ---------------
//  1. cli, err := secrets.New(ctx)                  // during boot.
//  2. config.SetSecretResolver(cli.Resolve)         // before config.Load.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).

package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// cacheTTL bounds how long a resolved secret may be reused.
const cacheTTL = 5 * time.Minute

// Client is safe for concurrent use.  Create once at startup.  Zero value
// is invalid.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal loop.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{api: apiCli, cache: make(map[string]cached)}
	go c.renewLoop(ctx)
	return c, nil
}

// Resolve turns a `vault:<mount/path>#<key>` URI into its secret value.
// Satisfies config.SecretResolver.
func (c *Client) Resolve(uri string) (string, error) {
	rest := strings.TrimPrefix(uri, "vault:")
	path, key, ok := strings.Cut(rest, "#")
	if !ok || path == "" || key == "" {
		return "", fmt.Errorf("secrets: malformed vault URI %q", uri)
	}
	return c.GetKV(context.Background(), path, key)
}

// GetKV fetches a single key from a KV-v2 secret, caching the result for
// cacheTTL.  Path is `<mount>/<secret path>`.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secrets: path and key must be non-empty")
	}

	canonical := secretPath + "#" + key
	c.cacheMu.RLock()
	if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
		c.cacheMu.RUnlock()
		return cv.val, nil
	}
	c.cacheMu.RUnlock()

	mount, rest, ok := strings.Cut(secretPath, "/")
	if !ok {
		return "", fmt.Errorf("secrets: path %q needs a mount prefix", secretPath)
	}

	sec, err := c.api.KVv2(mount).Get(ctx, rest)
	if err != nil {
		return "", fmt.Errorf("secrets: read %s: %w", secretPath, err)
	}
	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("secrets: key %q absent at %s", key, secretPath)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("secrets: key %q at %s is not a string", key, secretPath)
	}

	c.cacheMu.Lock()
	c.cache[canonical] = cached{val: val, exp: time.Now().Add(cacheTTL)}
	c.cacheMu.Unlock()
	return val, nil
}

// renewLoop keeps the client token alive for long-running processes.  Vault
// unavailability is logged and retried; secrets already resolved keep
// working from cache until their TTL lapses.
func (c *Client) renewLoop(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.api.Auth().Token().RenewSelf(0); err != nil {
				zap.S().Warnw("vault token renew failed", "err", err)
			}
		}
	}
}
