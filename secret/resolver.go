package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
)

// Sentinel errors for secret resolution.
var (
	ErrUnknownProvider = errors.New("secret: provider is not registered")
	ErrMissingEnv      = errors.New("secret: missing environment variable")
	ErrEmptySecret     = errors.New("secret: provider returned empty value")
)

const refPrefix = "secretref:"

var (
	envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)
	inlinePattern = regexp.MustCompile(`secretref:([^:\s]+):([^\s]+)`)
)

// Resolver expands placeholders and resolves references in values.
type Resolver struct {
	lookup    LookupFunc
	providers map[string]Provider
}

// NewResolver creates a resolver. A nil lookup uses os.LookupEnv.
func NewResolver(lookup LookupFunc, providers ...Provider) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	r := &Resolver{lookup: lookup, providers: make(map[string]Provider)}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// Default returns a resolver with the env and file providers.
func Default(lookup LookupFunc) *Resolver {
	return NewResolver(lookup, EnvProvider(lookup), FileProvider())
}

// ResolveValue expands ${VAR} placeholders in value, then resolves a full
// or inline secret reference.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := r.expand(value)
	if err != nil {
		return "", err
	}

	if provider, ref, ok := ParseRef(expanded); ok && !strings.ContainsAny(ref, " \t\r\n") {
		return r.resolve(ctx, provider, ref)
	}

	matches := inlinePattern.FindAllStringSubmatchIndex(expanded, -1)
	out := expanded
	// Replace from the end so earlier indexes stay valid.
	for _, m := range slices.Backward(matches) {
		resolved, err := r.resolve(ctx, out[m[2]:m[3]], out[m[4]:m[5]])
		if err != nil {
			return "", err
		}
		out = out[:m[0]] + resolved + out[m[1]:]
	}
	return out, nil
}

// ResolveMap resolves every value of input.
func (r *Resolver) ResolveMap(ctx context.Context, input map[string]string) (map[string]string, error) {
	if input == nil {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		resolved, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

// ParseRef splits a full reference "secretref:<provider>:<ref>".
func ParseRef(value string) (provider, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, ok = strings.Cut(rest, ":")
	if !ok || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

func (r *Resolver) resolve(ctx context.Context, name, ref string) (string, error) {
	p, ok := r.providers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	v, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", fmt.Errorf("%w: %s:%s", ErrEmptySecret, name, ref)
	}
	return v, nil
}

func (r *Resolver) expand(s string) (string, error) {
	const dollarSentinel = "\x00STATUS_SECRET_DOLLAR\x00"
	s = strings.ReplaceAll(s, "$$", dollarSentinel)

	var missing []string
	s = envVarPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := m[2 : len(m)-1]
		v, ok := r.lookup(key)
		if !ok {
			missing = append(missing, key)
		}
		return v
	})
	if len(missing) > 0 {
		slices.Sort(missing)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(slices.Compact(missing), ", "))
	}
	return strings.ReplaceAll(s, dollarSentinel, "$"), nil
}
