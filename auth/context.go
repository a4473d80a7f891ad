package auth

import "context"

type contextKey int

const identityKey contextKey = iota

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity in ctx, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// PrincipalFromContext returns the principal in ctx, or "".
func PrincipalFromContext(ctx context.Context) string {
	if id := IdentityFromContext(ctx); id != nil {
		return id.Principal
	}
	return ""
}
