package main

import (
	"time"

	"github.com/jonwraymond/statuskit/probes"
	"github.com/jonwraymond/statuskit/status"
)

// buildRegistry registers the runtime probes and the flag targets.
func buildRegistry(timeout time.Duration) (*status.Registry, error) {
	reg := status.NewRegistry()
	err := probes.Register(reg, probes.Targets{
		TCP:     tcpTargets,
		HTTP:    httpTargets,
		Timeout: timeout,
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}
