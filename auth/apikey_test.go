package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func apiKeyRequest(header, key string) *Request {
	h := http.Header{}
	if key != "" {
		h.Set(header, key)
	}
	return &Request{Headers: h}
}

func TestAPIKeyAuthenticator(t *testing.T) {
	store := NewMemoryAPIKeyStore()
	store.AddKey("k1", "live-key", "ops")
	store.Add(&APIKey{
		ID:        "k2",
		Hash:      HashAPIKey("old-key"),
		Principal: "legacy",
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	store.Add(&APIKey{
		ID:        "k3",
		Hash:      HashAPIKey("meta-key"),
		Principal: "dash",
		Roles:     []string{"reader"},
		Metadata:  map[string]any{"team": "sre"},
	})

	a := NewAPIKeyAuthenticator(APIKeyConfig{}, store)
	if a.Name() != "api_key" {
		t.Errorf("Name() = %q, want api_key", a.Name())
	}

	tests := []struct {
		name      string
		key       string
		wantOK    bool
		wantErr   error
		principal string
	}{
		{"valid key", "live-key", true, nil, "ops"},
		{"valid key with spaces", "  live-key ", true, nil, "ops"},
		{"unknown key", "nope", false, ErrInvalidCredentials, ""},
		{"expired key", "old-key", false, ErrTokenExpired, ""},
		{"missing key", "", false, ErrMissingCredentials, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.Authenticate(context.Background(), apiKeyRequest("X-API-Key", tt.key))
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if res.Authenticated != tt.wantOK {
				t.Fatalf("Authenticated = %v, want %v", res.Authenticated, tt.wantOK)
			}
			if tt.wantErr != nil && !errors.Is(res.Error, tt.wantErr) {
				t.Errorf("Error = %v, want %v", res.Error, tt.wantErr)
			}
			if tt.wantOK && res.Identity.Principal != tt.principal {
				t.Errorf("Principal = %q, want %q", res.Identity.Principal, tt.principal)
			}
		})
	}

	t.Run("metadata and roles", func(t *testing.T) {
		res, _ := a.Authenticate(context.Background(), apiKeyRequest("X-API-Key", "meta-key"))
		if !res.Authenticated {
			t.Fatal("Authenticated = false")
		}
		id := res.Identity
		if !id.HasRole("reader") || id.Claims["team"] != "sre" || id.Claims["key_id"] != "k3" {
			t.Errorf("Identity = %+v", id)
		}
		if id.Method != MethodAPIKey {
			t.Errorf("Method = %v, want api_key", id.Method)
		}
	})
}

func TestAPIKeyAuthenticator_Supports(t *testing.T) {
	a := NewAPIKeyAuthenticator(APIKeyConfig{HeaderName: "X-Status-Key"}, NewMemoryAPIKeyStore())

	if a.Supports(context.Background(), apiKeyRequest("X-API-Key", "k")) {
		t.Error("Supports() = true for default header with custom config")
	}
	if !a.Supports(context.Background(), apiKeyRequest("X-Status-Key", "k")) {
		t.Error("Supports() = false for configured header")
	}
}

type failingStore struct{}

func (failingStore) Lookup(context.Context, string) (*APIKey, error) {
	return nil, errors.New("store offline")
}

func TestAPIKeyAuthenticator_StoreError(t *testing.T) {
	a := NewAPIKeyAuthenticator(APIKeyConfig{}, failingStore{})
	res, err := a.Authenticate(context.Background(), apiKeyRequest("X-API-Key", "k"))
	if err == nil || res != nil {
		t.Errorf("Authenticate() = %v, %v; want nil, error", res, err)
	}
}

func TestMemoryAPIKeyStore_Remove(t *testing.T) {
	store := NewMemoryAPIKeyStore()
	store.AddKey("k1", "secret", "ops")
	store.Remove(HashAPIKey("secret"))

	got, err := store.Lookup(context.Background(), HashAPIKey("secret"))
	if err != nil || got != nil {
		t.Errorf("Lookup() after Remove = %v, %v; want nil, nil", got, err)
	}
}

func TestHashAPIKey(t *testing.T) {
	h := HashAPIKey("abc")
	if len(h) != 64 {
		t.Errorf("len(HashAPIKey) = %d, want 64", len(h))
	}
	if h != HashAPIKey("abc") {
		t.Error("HashAPIKey is not deterministic")
	}
}
