// internal/auth/identity.go
//
// Caller identity and its context plumbing.
//
// Usage
// -----
//     // Attach the identity after token verification.
//     ctx = auth.WithIdentity(ctx, id)
//
//     // Downstream code retrieves it.
//     id, ok := auth.FromContext(ctx)
//
// Notes
// -----
// • Stores a *Identity directly in context under an unexported key.
// • Oxford commas, two spaces after periods.

package auth

import "context"

// Identity is the authenticated caller as seen by authorization and
// handlers: token claims merged with defaults.  TenantID is sanitized.
type Identity struct {
	UserID      string
	Email       string
	TenantID    string
	Roles       []string
	Name        string
	Permissions []string
}

// identityKey is unexported to avoid context-key collisions.
type identityKey struct{}

// WithIdentity returns a new context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext extracts the identity from ctx.  ok is false when no
// authenticated caller is present.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
