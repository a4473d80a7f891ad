// Package observe provides observability primitives for status collectors.
//
// It is a pure instrumentation library: no collector execution, no transport,
// no I/O beyond exporter and log sink setup. The status engine wires a
// Middleware around every collector invocation; adapters use the Logger.
package observe
