package auth

import (
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures the JWT authenticator.
type JWTConfig struct {
	// Issuer is the required iss claim. Empty disables the check.
	Issuer string

	// Audience is the required aud claim. Empty disables the check.
	Audience string

	// HeaderName is the header carrying the token.
	// Default: "Authorization"
	HeaderName string

	// TokenPrefix precedes the token in the header.
	// Default: "Bearer "
	TokenPrefix string

	// PrincipalClaim names the claim holding the principal.
	// Default: "sub"
	PrincipalClaim string

	// RolesClaim names the claim holding a list of roles.
	RolesClaim string
}

// KeyProvider returns the verification key for a token.
type KeyProvider interface {
	// Key returns the key for the given key ID.
	Key(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider returns one HMAC secret for every key ID.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// Key returns the static key.
func (p *StaticKeyProvider) Key(context.Context, string) (any, error) {
	if len(p.key) == 0 {
		return nil, ErrKeyNotFound
	}
	return p.key, nil
}

// JWTAuthenticator validates HS256 bearer tokens.
type JWTAuthenticator struct {
	config JWTConfig
	keys   KeyProvider
}

// NewJWTAuthenticator creates a new JWT authenticator.
func NewJWTAuthenticator(config JWTConfig, keys KeyProvider) *JWTAuthenticator {
	if config.HeaderName == "" {
		config.HeaderName = "Authorization"
	}
	if config.TokenPrefix == "" {
		config.TokenPrefix = "Bearer "
	}
	if config.PrincipalClaim == "" {
		config.PrincipalClaim = "sub"
	}
	return &JWTAuthenticator{config: config, keys: keys}
}

// Name returns "jwt".
func (a *JWTAuthenticator) Name() string {
	return string(MethodJWT)
}

// Supports reports whether the header carries a prefixed token.
func (a *JWTAuthenticator) Supports(_ context.Context, req *Request) bool {
	return strings.HasPrefix(req.Header(a.config.HeaderName), a.config.TokenPrefix)
}

// Authenticate validates the token.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	header := req.Header(a.config.HeaderName)
	raw, ok := strings.CutPrefix(header, a.config.TokenPrefix)
	if !ok || strings.TrimSpace(raw) == "" {
		return Reject(ErrMissingCredentials, MethodJWT), nil
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if a.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.config.Issuer))
	}
	if a.config.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.config.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return a.keys.Key(ctx, kid)
	}, opts...)

	switch {
	case err == nil:
		return Accept(a.identity(claims)), nil
	case errors.Is(err, ErrKeyNotFound):
		return nil, err
	case errors.Is(err, jwt.ErrTokenExpired):
		return Reject(ErrTokenExpired, MethodJWT), nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Reject(ErrTokenMalformed, MethodJWT), nil
	default:
		return Reject(ErrInvalidCredentials, MethodJWT), nil
	}
}

func (a *JWTAuthenticator) identity(claims jwt.MapClaims) *Identity {
	id := &Identity{
		Method: MethodJWT,
		Claims: make(map[string]any, len(claims)),
	}
	maps.Copy(id.Claims, claims)

	if principal, ok := claims[a.config.PrincipalClaim].(string); ok {
		id.Principal = principal
	}
	if a.config.RolesClaim != "" {
		if roles, ok := claims[a.config.RolesClaim].([]any); ok {
			for _, r := range roles {
				if s, ok := r.(string); ok {
					id.Roles = append(id.Roles, s)
				}
			}
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id
}

var (
	_ Authenticator = (*JWTAuthenticator)(nil)
	_ KeyProvider   = (*StaticKeyProvider)(nil)
)
