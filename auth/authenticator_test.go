package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequest_Header(t *testing.T) {
	tests := []struct {
		name    string
		headers http.Header
		key     string
		want    string
	}{
		{"nil headers", nil, "Authorization", ""},
		{"existing header", http.Header{"Authorization": {"Bearer abc"}}, "Authorization", "Bearer abc"},
		{"canonicalized lookup", http.Header{"X-Api-Key": {"k"}}, "x-api-key", "k"},
		{"missing header", http.Header{"Accept": {"*/*"}}, "Authorization", ""},
		{"multiple values returns first", http.Header{"Accept": {"text/html", "application/json"}}, "Accept", "text/html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Request{Headers: tt.headers}
			if got := req.Header(tt.key); got != tt.want {
				t.Errorf("Header(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestNewRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/status/db", nil)
	r.Header.Set("X-API-Key", "k1")

	req := NewRequest(r)
	if req.Path != "/status/db" {
		t.Errorf("Path = %q, want /status/db", req.Path)
	}
	if req.Header("X-API-Key") != "k1" {
		t.Errorf("Header(X-API-Key) = %q, want k1", req.Header("X-API-Key"))
	}
}

func TestAcceptReject(t *testing.T) {
	id := &Identity{Principal: "ops", Method: MethodAPIKey}
	ok := Accept(id)
	if !ok.Authenticated || ok.Identity != id || ok.Method != MethodAPIKey {
		t.Errorf("Accept() = %+v", ok)
	}

	bad := Reject(ErrInvalidCredentials, MethodJWT)
	if bad.Authenticated || !errors.Is(bad.Error, ErrInvalidCredentials) || bad.Method != MethodJWT {
		t.Errorf("Reject() = %+v", bad)
	}
}

func TestAuthenticatorFunc(t *testing.T) {
	var a Authenticator = AuthenticatorFunc(func(context.Context, *Request) (*Result, error) {
		return Accept(AnonymousIdentity()), nil
	})

	if a.Name() != "func" {
		t.Errorf("Name() = %q, want func", a.Name())
	}
	if !a.Supports(context.Background(), &Request{}) {
		t.Error("Supports() = false, want true")
	}
	res, err := a.Authenticate(context.Background(), &Request{})
	if err != nil || !res.Authenticated {
		t.Errorf("Authenticate() = %+v, %v", res, err)
	}
}
