// Package config loads statusd settings from STATUS_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/statuskit/auth"
	"github.com/jonwraymond/statuskit/observe"
	"github.com/jonwraymond/statuskit/probes"
	"github.com/jonwraymond/statuskit/secret"
)

// Sentinel errors for configuration.
var (
	// ErrInvalidValue is returned for a variable that cannot be parsed.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrInvalidPair is returned for a malformed name=value list entry.
	ErrInvalidPair = errors.New("config: invalid name=value pair")

	// ErrMissingAddr is returned when no listen address is configured.
	ErrMissingAddr = errors.New("config: listen address is required")
)

// Config holds the statusd settings.
type Config struct {
	Addr     string
	BasePath string
	CORS     bool

	ServiceName    string
	ServiceVersion string

	LogEnabled bool
	LogLevel   string
	LogDir     string

	TracingExporter string
	TraceSamplePct  float64
	MetricsExporter string

	MaxConcurrency   int
	CollectorTimeout time.Duration
	RequestTimeout   time.Duration
	ShutdownTimeout  time.Duration

	// APIKeys maps a key ID to a plaintext key.
	APIKeys     map[string]string
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	TCPTargets  map[string]string
	HTTPTargets map[string]string

	MemoryWarning  float64
	MemoryCritical float64
	MemoryMaxBytes uint64
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Addr:             ":8080",
		BasePath:         "/status",
		ServiceName:      "statusd",
		ServiceVersion:   "dev",
		LogEnabled:       true,
		LogLevel:         "info",
		TracingExporter:  "none",
		TraceSamplePct:   1.0,
		MetricsExporter:  "prometheus",
		CollectorTimeout: 10 * time.Second,
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		MemoryWarning:    0.8,
		MemoryCritical:   0.95,
	}
}

// FromEnv loads the configuration from the process environment.
func FromEnv() (Config, error) {
	return Load(os.LookupEnv)
}

// Load reads the configuration through lookup, starting from Default.
//
// Credential and target values may hold ${VAR} placeholders and
// secretref:env:<VAR> or secretref:file:<path> references. They are
// resolved through the same lookup.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	p := parser{lookup: lookup}

	p.str("STATUS_ADDR", &cfg.Addr)
	p.str("STATUS_BASE_PATH", &cfg.BasePath)
	p.boolean("STATUS_CORS", &cfg.CORS)

	p.str("STATUS_SERVICE_NAME", &cfg.ServiceName)
	p.str("STATUS_SERVICE_VERSION", &cfg.ServiceVersion)

	p.boolean("STATUS_LOG_ENABLED", &cfg.LogEnabled)
	p.str("STATUS_LOG_LEVEL", &cfg.LogLevel)
	p.str("STATUS_LOG_DIR", &cfg.LogDir)

	p.str("STATUS_TRACING_EXPORTER", &cfg.TracingExporter)
	p.float("STATUS_TRACE_SAMPLE_PCT", &cfg.TraceSamplePct)
	p.str("STATUS_METRICS_EXPORTER", &cfg.MetricsExporter)

	p.integer("STATUS_MAX_CONCURRENCY", &cfg.MaxConcurrency)
	p.duration("STATUS_COLLECTOR_TIMEOUT", &cfg.CollectorTimeout)
	p.duration("STATUS_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	p.duration("STATUS_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	p.pairs("STATUS_API_KEYS", &cfg.APIKeys)
	p.str("STATUS_JWT_SECRET", &cfg.JWTSecret)
	p.str("STATUS_JWT_ISSUER", &cfg.JWTIssuer)
	p.str("STATUS_JWT_AUDIENCE", &cfg.JWTAudience)

	p.pairs("STATUS_TCP_TARGETS", &cfg.TCPTargets)
	p.pairs("STATUS_HTTP_TARGETS", &cfg.HTTPTargets)

	p.float("STATUS_MEMORY_WARNING", &cfg.MemoryWarning)
	p.float("STATUS_MEMORY_CRITICAL", &cfg.MemoryCritical)
	p.uint64("STATUS_MEMORY_MAX_BYTES", &cfg.MemoryMaxBytes)

	if err := errors.Join(p.errs...); err != nil {
		return Config{}, err
	}
	if err := cfg.resolveSecrets(context.Background(), secret.Default(lookup)); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) resolveSecrets(ctx context.Context, r *secret.Resolver) error {
	var errs []error
	if c.JWTSecret != "" {
		v, err := r.ResolveValue(ctx, c.JWTSecret)
		if err != nil {
			errs = append(errs, fmt.Errorf("STATUS_JWT_SECRET: %w", err))
		}
		c.JWTSecret = v
	}
	for key, dst := range map[string]*map[string]string{
		"STATUS_API_KEYS":     &c.APIKeys,
		"STATUS_TCP_TARGETS":  &c.TCPTargets,
		"STATUS_HTTP_TARGETS": &c.HTTPTargets,
	} {
		m, err := r.ResolveMap(ctx, *dst)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = m
	}
	return errors.Join(errs...)
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Addr == "" {
		return ErrMissingAddr
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: STATUS_MAX_CONCURRENCY must not be negative", ErrInvalidValue)
	}
	obs := c.Observe()
	return obs.Validate()
}

// Observe returns the telemetry configuration.
func (c Config) Observe() observe.Config {
	return observe.Config{
		ServiceName: c.ServiceName,
		Version:     c.ServiceVersion,
		Tracing: observe.TracingConfig{
			Enabled:   c.TracingExporter != "" && c.TracingExporter != "none",
			Exporter:  c.TracingExporter,
			SamplePct: c.TraceSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.MetricsExporter != "" && c.MetricsExporter != "none",
			Exporter: c.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.LogEnabled,
			Level:   c.LogLevel,
			Dir:     c.LogDir,
		},
	}
}

// Authenticator returns the authenticator guarding the status routes, or
// nil when neither API keys nor a JWT secret are configured.
func (c Config) Authenticator() auth.Authenticator {
	var auths []auth.Authenticator
	if len(c.APIKeys) > 0 {
		store := auth.NewMemoryAPIKeyStore()
		for id, key := range c.APIKeys {
			store.AddKey(id, key, id)
		}
		auths = append(auths, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store))
	}
	if c.JWTSecret != "" {
		auths = append(auths, auth.NewJWTAuthenticator(auth.JWTConfig{
			Issuer:   c.JWTIssuer,
			Audience: c.JWTAudience,
		}, auth.NewStaticKeyProvider([]byte(c.JWTSecret))))
	}

	switch len(auths) {
	case 0:
		return nil
	case 1:
		return auths[0]
	default:
		return auth.NewCompositeAuthenticator(auths...)
	}
}

// Targets returns the probes to register.
func (c Config) Targets() probes.Targets {
	return probes.Targets{
		Memory: probes.MemoryConfig{
			WarningThreshold:  c.MemoryWarning,
			CriticalThreshold: c.MemoryCritical,
			MaxAlloc:          c.MemoryMaxBytes,
		},
		TCP:     c.TCPTargets,
		HTTP:    c.HTTPTargets,
		Timeout: c.CollectorTimeout,
	}
}

// ParsePairs parses "a=x,b=y" into a map. Whitespace around entries is
// ignored and empty entries are skipped.
func ParsePairs(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, "=")
		name, value = strings.TrimSpace(name), strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPair, entry)
		}
		out[name] = value
	}
	return out, nil
}

type parser struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (p *parser) fail(key, value string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidValue, key, value, err))
}

func (p *parser) str(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}

func (p *parser) boolean(key string, dst *bool) {
	if v, ok := p.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = b
	}
}

func (p *parser) integer(key string, dst *int) {
	if v, ok := p.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) uint64(key string, dst *uint64) {
	if v, ok := p.get(key); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *parser) float(key string, dst *float64) {
	if v, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (p *parser) duration(key string, dst *time.Duration) {
	if v, ok := p.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = d
	}
}

func (p *parser) pairs(key string, dst *map[string]string) {
	if v, ok := p.get(key); ok {
		m, err := ParsePairs(v)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = m
	}
}
