package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret
// values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

type envProvider struct {
	lookup LookupFunc
}

// EnvProvider returns the "env" provider, which reads the variable named by
// the reference. A nil lookup uses os.LookupEnv.
func EnvProvider(lookup LookupFunc) Provider {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return envProvider{lookup: lookup}
}

func (envProvider) Name() string { return "env" }

func (p envProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.lookup(ref)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, ref)
	}
	return v, nil
}

type fileProvider struct{}

// FileProvider returns the "file" provider, which reads the file named by
// the reference.
func FileProvider() Provider {
	return fileProvider{}
}

func (fileProvider) Name() string { return "file" }

func (fileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(ref)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}
