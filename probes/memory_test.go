package probes

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/jonwraymond/statuskit/status"
)

func TestMemoryConfig_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		config       MemoryConfig
		wantWarning  float64
		wantCritical float64
	}{
		{"zero", MemoryConfig{}, 0.8, 0.95},
		{"out of range", MemoryConfig{WarningThreshold: 2, CriticalThreshold: -1}, 0.8, 0.95},
		{"critical below warning", MemoryConfig{WarningThreshold: 0.9, CriticalThreshold: 0.5}, 0.9, 0.99},
		{"critical raised", MemoryConfig{WarningThreshold: 0.5, CriticalThreshold: 0.4}, 0.5, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.config.withDefaults()
			if got.WarningThreshold != tt.wantWarning {
				t.Errorf("WarningThreshold = %v, want %v", got.WarningThreshold, tt.wantWarning)
			}
			if diff := got.CriticalThreshold - tt.wantCritical; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("CriticalThreshold = %v, want %v", got.CriticalThreshold, tt.wantCritical)
			}
		})
	}
}

func TestMemoryReport_Levels(t *testing.T) {
	cfg := MemoryConfig{MaxAlloc: 1000}.withDefaults()

	tests := []struct {
		alloc       uint64
		wantLevel   string
		wantSuccess bool
	}{
		{100, "normal", true},
		{850, "warning", true},
		{960, "critical", false},
	}
	for _, tt := range tests {
		t.Run(tt.wantLevel, func(t *testing.T) {
			out := memoryReport(cfg, &runtime.MemStats{Alloc: tt.alloc})
			if out.Kind() != status.KindReport {
				t.Fatalf("Kind() = %v, want report", out.Kind())
			}
			if out.Success() != tt.wantSuccess {
				t.Errorf("Success() = %v, want %v", out.Success(), tt.wantSuccess)
			}
			report := out.Value().(status.Report)
			if report.Data["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", report.Data["level"], tt.wantLevel)
			}
		})
	}
}

func TestMemoryReport_UnknownBudget(t *testing.T) {
	out := memoryReport(MemoryConfig{}.withDefaults(), &runtime.MemStats{})
	if !out.Success() {
		t.Error("Success() = false without a budget")
	}
	if out.Value().(status.Report).Data["level"] != "unknown" {
		t.Errorf("level = %v, want unknown", out.Value().(status.Report).Data["level"])
	}
}

func TestMemory(t *testing.T) {
	out, err := Memory(MemoryConfig{})(context.Background())
	if err != nil {
		t.Fatalf("Memory() error = %v", err)
	}
	if _, ok := out.Value().(status.Report).Data["alloc_bytes"]; !ok {
		t.Error("alloc_bytes missing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Memory(MemoryConfig{})(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Memory(canceled) error = %v, want context.Canceled", err)
	}
}

func TestGoroutines(t *testing.T) {
	out, err := Goroutines()(context.Background())
	if err != nil {
		t.Fatalf("Goroutines() error = %v", err)
	}
	if out.Kind() != status.KindPlain {
		t.Errorf("Kind() = %v, want plain", out.Kind())
	}
	if n, ok := out.Value().(int); !ok || n < 1 {
		t.Errorf("Value() = %v, want positive int", out.Value())
	}
}
