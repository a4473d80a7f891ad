package secret

import (
	"context"
	"errors"
	"maps"
	"os"
	"path/filepath"
	"testing"
)

func mapLookup(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestResolver_ResolveValue(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("file-token\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	env := map[string]string{
		"DB_HOST":    "db.internal",
		"JWT_SECRET": "env-secret",
		"EMPTY":      "",
	}
	r := Default(mapLookup(env))

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{"plain", "http://api/health", "http://api/health", nil},
		{"placeholder", "http://${DB_HOST}:8080/health", "http://db.internal:8080/health", nil},
		{"dollar escape", "cost$$", "cost$", nil},
		{"missing placeholder", "${NOPE}", "", ErrMissingEnv},
		{"env ref", "secretref:env:JWT_SECRET", "env-secret", nil},
		{"file ref", "secretref:file:" + tokenFile, "file-token", nil},
		{"inline ref", "Bearer secretref:env:JWT_SECRET", "Bearer env-secret", nil},
		{"two inline refs", "secretref:env:DB_HOST and secretref:env:JWT_SECRET", "db.internal and env-secret", nil},
		{"missing env ref", "secretref:env:NOPE", "", ErrMissingEnv},
		{"empty secret", "secretref:env:EMPTY", "", ErrEmptySecret},
		{"unknown provider", "secretref:vault:kv/jwt", "", ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveValue(context.Background(), tt.value)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ResolveValue(%q) error = %v, want %v", tt.value, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveValue(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveValue(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestResolver_FileMissing(t *testing.T) {
	_, err := Default(nil).ResolveValue(context.Background(), "secretref:file:"+filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ResolveValue() error = %v, want os.ErrNotExist", err)
	}
}

func TestResolver_ResolveMap(t *testing.T) {
	r := Default(mapLookup(map[string]string{"KEY": "k1"}))

	got, err := r.ResolveMap(context.Background(), map[string]string{"dash": "secretref:env:KEY", "ops": "literal"})
	if err != nil {
		t.Fatalf("ResolveMap() error = %v", err)
	}
	if want := map[string]string{"dash": "k1", "ops": "literal"}; !maps.Equal(got, want) {
		t.Errorf("ResolveMap() = %v, want %v", got, want)
	}

	if _, err := r.ResolveMap(context.Background(), map[string]string{"bad": "secretref:env:NOPE"}); !errors.Is(err, ErrMissingEnv) {
		t.Errorf("ResolveMap() error = %v, want ErrMissingEnv", err)
	}

	if got, err := r.ResolveMap(context.Background(), nil); got != nil || err != nil {
		t.Errorf("ResolveMap(nil) = %v, %v", got, err)
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		value        string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"secretref:env:X", "env", "X", true},
		{"secretref:file:/a:b", "file", "/a:b", true},
		{"secretref:env", "", "", false},
		{"secretref::X", "", "", false},
		{"env:X", "", "", false},
	}
	for _, tt := range tests {
		p, ref, ok := ParseRef(tt.value)
		if p != tt.wantProvider || ref != tt.wantRef || ok != tt.wantOK {
			t.Errorf("ParseRef(%q) = %q, %q, %v", tt.value, p, ref, ok)
		}
	}
}
