package probes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/jonwraymond/statuskit/status"
)

// ErrEmptyAddress is returned when a TCP probe has no address.
var ErrEmptyAddress = errors.New("probes: empty address")

// TCPConfig configures a TCP reachability probe.
type TCPConfig struct {
	// Address is the host:port to dial.
	Address string

	// Timeout bounds the dial.
	// Default: 5 seconds
	Timeout time.Duration
}

// TCP returns an action that dials the configured address. A failed dial is
// an action error; a successful one reports the dial latency.
func TCP(config TCPConfig) status.Action {
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	dialer := &net.Dialer{Timeout: config.Timeout}

	return func(ctx context.Context) (status.Outcome, error) {
		if config.Address == "" {
			return status.Outcome{}, ErrEmptyAddress
		}

		start := time.Now()
		conn, err := dialer.DialContext(ctx, "tcp", config.Address)
		if err != nil {
			return status.Outcome{}, fmt.Errorf("dial %s: %w", config.Address, err)
		}
		latency := time.Since(start)
		_ = conn.Close()

		return status.Succeeded(map[string]any{
			"address":    config.Address,
			"latency_ms": float64(latency.Microseconds()) / 1000,
		}), nil
	}
}
