package probes

import (
	"context"
	"runtime"

	"github.com/jonwraymond/statuskit/status"
)

// MemoryConfig configures the memory probe.
type MemoryConfig struct {
	// WarningThreshold is the usage ratio reported as "warning".
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the usage ratio that fails the probe.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the allocation budget in bytes.
	// Default: 0 (the memory obtained from the OS)
	MaxAlloc uint64
}

func (c MemoryConfig) withDefaults() MemoryConfig {
	if c.WarningThreshold <= 0 || c.WarningThreshold >= 1 {
		c.WarningThreshold = 0.8
	}
	if c.CriticalThreshold <= 0 || c.CriticalThreshold >= 1 {
		c.CriticalThreshold = 0.95
	}
	if c.CriticalThreshold < c.WarningThreshold {
		c.CriticalThreshold = min(c.WarningThreshold+0.1, 0.99)
	}
	return c
}

// Memory returns an action reporting heap usage against a budget. Usage at
// or above the critical threshold is a declared failure.
func Memory(config MemoryConfig) status.Action {
	cfg := config.withDefaults()
	return func(ctx context.Context) (status.Outcome, error) {
		if err := ctx.Err(); err != nil {
			return status.Outcome{}, err
		}

		var stats runtime.MemStats
		runtime.ReadMemStats(&stats)
		return memoryReport(cfg, &stats), nil
	}
}

func memoryReport(cfg MemoryConfig, stats *runtime.MemStats) status.Outcome {
	maxAlloc := cfg.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}

	data := map[string]any{
		"alloc_bytes":  stats.Alloc,
		"heap_in_use":  stats.HeapInuse,
		"heap_objects": stats.HeapObjects,
		"sys_bytes":    stats.Sys,
		"num_gc":       stats.NumGC,
	}
	if maxAlloc == 0 {
		data["level"] = "unknown"
		return status.Succeeded(data)
	}

	ratio := float64(stats.Alloc) / float64(maxAlloc)
	data["max_alloc"] = maxAlloc
	data["usage_percent"] = ratio * 100

	switch {
	case ratio >= cfg.CriticalThreshold:
		data["level"] = "critical"
		return status.Failed(data)
	case ratio >= cfg.WarningThreshold:
		data["level"] = "warning"
	default:
		data["level"] = "normal"
	}
	return status.Succeeded(data)
}

// Goroutines returns an action reporting the goroutine count as a plain
// value.
func Goroutines() status.Action {
	return func(context.Context) (status.Outcome, error) {
		return status.Plain(runtime.NumGoroutine()), nil
	}
}
