package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("failed to parse log line as JSON: %v\nline: %s", err, line)
	}
	return entry
}

func TestLogger_JSONShape(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "hello", Field{Key: "count", Value: 3})

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("timestamp missing")
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v, want 3", entry["count"])
	}
}

func TestLogger_WithProbe(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf).WithProbe(ProbeMeta{Name: "db.primary.latency"})

	logger.Debug(context.Background(), "probe completed")

	entry := decodeLine(t, strings.TrimSpace(buf.String()))
	if entry["probe.name"] != "db.primary.latency" {
		t.Errorf("probe.name = %v, want db.primary.latency", entry["probe.name"])
	}
	if entry["probe.group"] != "db" {
		t.Errorf("probe.group = %v, want db", entry["probe.group"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	logger.Debug(context.Background(), "debug")
	logger.Info(context.Background(), "info")
	logger.Warn(context.Background(), "warn")
	logger.Error(context.Background(), "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if decodeLine(t, lines[0])["msg"] != "warn" {
		t.Errorf("first line = %s, want warn", lines[0])
	}
}

func TestLogger_Redaction(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info(context.Background(), "auth",
		Field{Key: "api_key", Value: "sk-123"},
		Field{Key: "principal", Value: "ops"},
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want [REDACTED]", fields["api_key"])
	}
	if fields["principal"] != "ops" {
		t.Errorf("principal = %v, want ops", fields["principal"])
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"loud", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Info(context.Background(), "ignored")
	if logger.WithProbe(ProbeMeta{Name: "x"}) == nil {
		t.Error("WithProbe should return a non-nil logger")
	}
}
