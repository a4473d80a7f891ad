package probes

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/jonwraymond/statuskit/status"
)

// Targets lists the probes Register installs.
type Targets struct {
	// Memory configures runtime.memory.
	Memory MemoryConfig

	// TCP maps a probe name to a host:port.
	TCP map[string]string

	// HTTP maps a probe name to a URL.
	HTTP map[string]string

	// Timeout bounds each TCP and HTTP probe. Zero uses the probe defaults.
	Timeout time.Duration

	// Options are applied to every registered collector.
	Options []status.CollectorOption
}

// Register installs the runtime probes and every target in reg.
func Register(reg *status.Registry, targets Targets) error {
	register := func(name string, action status.Action) error {
		if _, err := reg.Register(name, action, targets.Options...); err != nil {
			return fmt.Errorf("probes: %w", err)
		}
		return nil
	}

	if err := register("runtime.memory", Memory(targets.Memory)); err != nil {
		return err
	}
	if err := register("runtime.goroutines", Goroutines()); err != nil {
		return err
	}

	for _, name := range slices.Sorted(maps.Keys(targets.TCP)) {
		action := TCP(TCPConfig{Address: targets.TCP[name], Timeout: targets.Timeout})
		if err := register("tcp."+name, action); err != nil {
			return err
		}
	}
	for _, name := range slices.Sorted(maps.Keys(targets.HTTP)) {
		action := HTTP(HTTPConfig{URL: targets.HTTP[name], Timeout: targets.Timeout})
		if err := register("http."+name, action); err != nil {
			return err
		}
	}
	return nil
}
