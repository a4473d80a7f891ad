package auth

import (
	"context"
	"net/http"
)

// Authenticator validates request credentials.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: Authenticate returns (nil, error) for internal errors and
//     (*Result, nil) for accepted or rejected credentials.
type Authenticator interface {
	// Name identifies the authenticator in logs.
	Name() string

	// Supports reports whether the request carries credentials this
	// authenticator understands.
	Supports(ctx context.Context, req *Request) bool

	// Authenticate validates the credentials.
	Authenticate(ctx context.Context, req *Request) (*Result, error)
}

// Request is the credential-bearing part of an incoming request.
type Request struct {
	// Headers are the request headers.
	Headers http.Header

	// Path is the requested URL path.
	Path string
}

// NewRequest extracts a Request from an HTTP request.
func NewRequest(r *http.Request) *Request {
	return &Request{Headers: r.Header, Path: r.URL.Path}
}

// Header returns the first value of the named header.
func (r *Request) Header(key string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(key)
}

// Result is the outcome of an authentication attempt.
type Result struct {
	// Authenticated is true when the credentials were accepted.
	Authenticated bool

	// Identity is set when Authenticated is true.
	Identity *Identity

	// Error explains a rejection.
	Error error

	// Method is the authenticator method that produced the result.
	Method Method
}

// Accept returns a successful result for identity.
func Accept(identity *Identity) *Result {
	return &Result{
		Authenticated: true,
		Identity:      identity,
		Method:        identity.Method,
	}
}

// Reject returns a failed result.
func Reject(err error, method Method) *Result {
	return &Result{
		Authenticated: false,
		Error:         err,
		Method:        method,
	}
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
// It supports every request.
type AuthenticatorFunc func(ctx context.Context, req *Request) (*Result, error)

// Name returns "func".
func (f AuthenticatorFunc) Name() string {
	return "func"
}

// Supports returns true.
func (f AuthenticatorFunc) Supports(context.Context, *Request) bool {
	return true
}

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	return f(ctx, req)
}
