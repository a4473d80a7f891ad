package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"strings"
	"sync"
	"time"
)

// APIKeyConfig configures the API key authenticator.
type APIKeyConfig struct {
	// HeaderName is the header carrying the key.
	// Default: "X-API-Key"
	HeaderName string
}

// APIKey describes a registered key. Only its hash is stored.
type APIKey struct {
	// ID identifies the key in logs and claims.
	ID string

	// Hash is the SHA-256 hex digest of the key.
	Hash string

	// Principal is the identity the key authenticates as.
	Principal string

	// Roles are granted to callers using the key.
	Roles []string

	// ExpiresAt is when the key stops working. Zero means never.
	ExpiresAt time.Time

	// Metadata is copied into the identity claims.
	Metadata map[string]any
}

// APIKeyStore looks up keys by hash.
type APIKeyStore interface {
	// Lookup returns the key with the given hash, or nil.
	Lookup(ctx context.Context, hash string) (*APIKey, error)
}

// APIKeyAuthenticator validates keys passed in a request header.
type APIKeyAuthenticator struct {
	config APIKeyConfig
	store  APIKeyStore
}

// NewAPIKeyAuthenticator creates a new API key authenticator.
func NewAPIKeyAuthenticator(config APIKeyConfig, store APIKeyStore) *APIKeyAuthenticator {
	if config.HeaderName == "" {
		config.HeaderName = "X-API-Key"
	}
	return &APIKeyAuthenticator{config: config, store: store}
}

// Name returns "api_key".
func (a *APIKeyAuthenticator) Name() string {
	return string(MethodAPIKey)
}

// Supports reports whether the key header is present.
func (a *APIKeyAuthenticator) Supports(_ context.Context, req *Request) bool {
	return req.Header(a.config.HeaderName) != ""
}

// Authenticate validates the key.
func (a *APIKeyAuthenticator) Authenticate(ctx context.Context, req *Request) (*Result, error) {
	key := strings.TrimSpace(req.Header(a.config.HeaderName))
	if key == "" {
		return Reject(ErrMissingCredentials, MethodAPIKey), nil
	}

	info, err := a.store.Lookup(ctx, HashAPIKey(key))
	if err != nil {
		return nil, err
	}
	if info == nil {
		return Reject(ErrInvalidCredentials, MethodAPIKey), nil
	}
	if !info.ExpiresAt.IsZero() && time.Now().After(info.ExpiresAt) {
		return Reject(ErrTokenExpired, MethodAPIKey), nil
	}

	claims := make(map[string]any, len(info.Metadata)+1)
	maps.Copy(claims, info.Metadata)
	claims["key_id"] = info.ID

	return Accept(&Identity{
		Principal: info.Principal,
		Roles:     info.Roles,
		Method:    MethodAPIKey,
		Claims:    claims,
		ExpiresAt: info.ExpiresAt,
	}), nil
}

// HashAPIKey returns the SHA-256 hex digest used to store key.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// MemoryAPIKeyStore is an in-memory APIKeyStore.
type MemoryAPIKeyStore struct {
	mu   sync.RWMutex
	keys map[string]*APIKey // by hash
}

// NewMemoryAPIKeyStore creates an empty store.
func NewMemoryAPIKeyStore() *MemoryAPIKeyStore {
	return &MemoryAPIKeyStore{keys: make(map[string]*APIKey)}
}

// Lookup returns the key with the given hash, or nil.
func (s *MemoryAPIKeyStore) Lookup(_ context.Context, hash string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[hash], nil
}

// Add stores key, replacing any key with the same hash.
func (s *MemoryAPIKeyStore) Add(key *APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key.Hash] = key
}

// AddKey hashes and stores a plaintext key for principal.
func (s *MemoryAPIKeyStore) AddKey(id, key, principal string) {
	s.Add(&APIKey{ID: id, Hash: HashAPIKey(key), Principal: principal})
}

// Remove deletes the key with the given hash.
func (s *MemoryAPIKeyStore) Remove(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, hash)
}

var (
	_ Authenticator = (*APIKeyAuthenticator)(nil)
	_ APIKeyStore   = (*MemoryAPIKeyStore)(nil)
)
