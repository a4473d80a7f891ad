// Package status provides a registry of named status collectors and an
// engine that runs a selection of them concurrently and normalizes their
// outcomes into result envelopes.
//
// # Collectors
//
// A collector is a hierarchical name ("db.primary", "cache.redis") bound to
// an Action. Actions return an Outcome built with Plain for opaque payloads
// or Structured, Succeeded and Failed for reports carrying a success flag:
//
//	reg := status.NewRegistry()
//	reg.MustRegister("db.primary", func(ctx context.Context) (status.Outcome, error) {
//	    if err := db.PingContext(ctx); err != nil {
//	        return status.Outcome{}, err
//	    }
//	    return status.Succeeded(map[string]any{"open": db.Stats().OpenConnections}), nil
//	})
//
// # Selection
//
// Registry.Select takes a glob pattern where '*' matches any run of
// characters and '?' matches exactly one. The '.' separator has no special
// meaning, so "db*" selects "db.primary" and "db.replica". The empty pattern
// selects every collector.
//
// # Execution
//
// Engine.Run invokes every selected collector on its own goroutine and
// waits for all of them to settle. One envelope is produced per collector,
// in input order. Errors and panics are captured in the envelope of the
// collector that produced them and never affect the others.
//
//	eng := status.NewEngine(status.EngineConfig{MaxConcurrency: 8})
//	envs, err := eng.Execute(ctx, reg, "db*")
//
// # HTTP
//
// Handler exposes a registry over HTTP: GET {base}-list returns the sorted
// names and GET {base}/a/b runs the collectors matching "a.b*". The status
// code is 200 when every envelope succeeded and 503 otherwise.
package status
