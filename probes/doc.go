// Package probes provides ready-made status collector actions: runtime
// memory and goroutine counts, TCP reachability and HTTP endpoint checks.
//
// Register installs the runtime probes and any configured targets in a
// registry under the names runtime.memory, runtime.goroutines, tcp.<name>
// and http.<name>.
package probes
