package auth

import (
	"slices"
	"time"
)

// Method indicates how a caller was authenticated.
type Method string

const (
	MethodNone      Method = "none"
	MethodJWT       Method = "jwt"
	MethodAPIKey    Method = "api_key"
	MethodAnonymous Method = "anonymous"
)

// Identity is an authenticated caller.
type Identity struct {
	// Principal identifies the caller (key owner, token subject).
	Principal string

	// Roles are the roles granted to the caller.
	Roles []string

	// Method is how the caller was authenticated.
	Method Method

	// Claims holds token claims or key metadata.
	Claims map[string]any

	// ExpiresAt is when the credential expires. Zero means never.
	ExpiresAt time.Time
}

// HasRole reports whether the identity has role.
func (id *Identity) HasRole(role string) bool {
	return slices.Contains(id.Roles, role)
}

// IsExpired reports whether the credential has expired.
func (id *Identity) IsExpired() bool {
	return !id.ExpiresAt.IsZero() && time.Now().After(id.ExpiresAt)
}

// IsAnonymous reports whether the identity carries no principal.
func (id *Identity) IsAnonymous() bool {
	return id.Method == MethodAnonymous || id.Principal == ""
}

// AnonymousIdentity returns the identity used for unauthenticated access.
func AnonymousIdentity() *Identity {
	return &Identity{
		Principal: "anonymous",
		Method:    MethodAnonymous,
		Claims:    make(map[string]any),
	}
}
