package auth

import "context"

// CompositeAuthenticator tries authenticators in order and returns the
// first acceptance. Authenticators that do not support a request are
// skipped.
type CompositeAuthenticator struct {
	authenticators []Authenticator
}

// NewCompositeAuthenticator creates a composite authenticator. Nil entries
// are ignored.
func NewCompositeAuthenticator(auths ...Authenticator) *CompositeAuthenticator {
	c := &CompositeAuthenticator{}
	for _, a := range auths {
		if a != nil {
			c.authenticators = append(c.authenticators, a)
		}
	}
	return c
}

// Name returns "composite".
func (c *CompositeAuthenticator) Name() string {
	return "composite"
}

// Len returns the number of authenticators.
func (c *CompositeAuthenticator) Len() int {
	return len(c.authenticators)
}

// Supports reports whether any authenticator supports the request.
func (c *CompositeAuthenticator) Supports(ctx context.Context, req *Request) bool {
	for _, a := range c.authenticators {
		if a.Supports(ctx, req) {
			return true
		}
	}
	return false
}

// Authenticate returns the first acceptance, or the last rejection.
func (c *CompositeAuthenticator) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	var last *Result
	for _, a := range c.authenticators {
		if !a.Supports(ctx, req) {
			continue
		}
		result, err := a.Authenticate(ctx, req)
		if err != nil {
			return nil, err
		}
		if result.Authenticated {
			return result, nil
		}
		last = result
	}
	if last != nil {
		return last, nil
	}
	return Reject(ErrMissingCredentials, MethodNone), nil
}

var _ Authenticator = (*CompositeAuthenticator)(nil)
