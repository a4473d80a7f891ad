// Package auth authenticates callers of the status routes.
//
// Authenticators inspect request headers and produce an Identity. API keys
// (X-API-Key) and HS256 bearer tokens are supported, and a
// CompositeAuthenticator accepts either. Middleware adapts an Authenticator
// to net/http and answers unauthenticated requests with 401 and a JSON
// error body.
package auth
