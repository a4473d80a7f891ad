package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/statuskit/observe"
)

// EngineConfig configures the execution engine.
type EngineConfig struct {
	// MaxConcurrency limits the number of collectors running at once.
	// Default: 0 (unbounded)
	MaxConcurrency int

	// Timeout bounds each invocation. Per-collector timeouts still apply.
	// Default: 0 (no engine timeout)
	Timeout time.Duration

	// Middleware adds tracing, metrics and logging around each invocation.
	// Default: nil (no telemetry)
	Middleware *observe.Middleware
}

// Engine runs collectors and normalizes their outcomes into envelopes.
type Engine struct {
	config EngineConfig
}

// NewEngine creates a new execution engine.
func NewEngine(config ...EngineConfig) *Engine {
	var cfg EngineConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.MaxConcurrency < 0 {
		cfg.MaxConcurrency = 0
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	return &Engine{config: cfg}
}

// Execute runs the collectors of reg matching pattern.
func (e *Engine) Execute(ctx context.Context, reg *Registry, pattern string) ([]Envelope, error) {
	return e.Run(ctx, reg.Select(pattern))
}

// Run invokes every collector concurrently and waits for all of them to
// settle. Envelope i belongs to collectors[i]. The only error is
// ErrNilCollector, returned before anything runs.
func (e *Engine) Run(ctx context.Context, collectors []*Collector) ([]Envelope, error) {
	for i, c := range collectors {
		if c == nil {
			return nil, fmt.Errorf("collector %d: %w", i, ErrNilCollector)
		}
	}

	envs := make([]Envelope, len(collectors))
	if len(collectors) == 0 {
		return envs, nil
	}

	var g errgroup.Group
	if e.config.MaxConcurrency > 0 {
		g.SetLimit(e.config.MaxConcurrency)
	}
	for i, c := range collectors {
		g.Go(func() error {
			envs[i] = e.Invoke(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	return envs, nil
}

// Invoke runs a single collector. It never panics: errors, panics and
// deadlines are recorded in the returned envelope. An outcome value that
// cannot be encoded as JSON fails the envelope with ErrResultNotEncodable.
func (e *Engine) Invoke(ctx context.Context, c *Collector) Envelope {
	start := time.Now()
	if c == nil {
		return Envelope{Error: ErrNilCollector, Timestamp: start}
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	var out Outcome
	invoke := func(ctx context.Context, _ observe.ProbeMeta) (bool, error) {
		var err error
		out, err = await(ctx, c.action)
		if err != nil {
			return false, err
		}
		return out.Success(), nil
	}
	if e.config.Middleware != nil {
		invoke = e.config.Middleware.Wrap(invoke)
	}

	success, err := invoke(ctx, observe.ProbeMeta{Name: c.name})

	env := Envelope{
		Name:      c.name,
		Duration:  time.Since(start),
		Timestamp: start,
	}
	if err != nil {
		env.Error = err
		return env
	}
	if _, err := json.Marshal(out.Value()); err != nil {
		env.Error = fmt.Errorf("%w: %v", ErrResultNotEncodable, err)
		return env
	}
	env.Success = success
	env.Results = out.Value()
	return env
}

// InvokeByName runs the collector registered under name. It returns
// ErrCollectorNotFound when there is none.
func (e *Engine) InvokeByName(ctx context.Context, reg *Registry, name string) (Envelope, error) {
	c, ok := reg.Lookup(name)
	if !ok {
		return Envelope{}, fmt.Errorf("%w: %q", ErrCollectorNotFound, name)
	}
	return e.Invoke(ctx, c), nil
}

type actionResult struct {
	out Outcome
	err error
}

// await runs action on its own goroutine so that a stuck action cannot hold
// the caller past ctx. The goroutine is abandoned when ctx ends first.
func await(ctx context.Context, action Action) (Outcome, error) {
	resultCh := make(chan actionResult, 1)
	go func() {
		out, err := safeCall(ctx, action)
		resultCh <- actionResult{out: out, err: err}
	}()

	select {
	case r := <-resultCh:
		return r.out, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Outcome{}, ErrCollectorTimeout
		}
		return Outcome{}, ctx.Err()
	}
}
