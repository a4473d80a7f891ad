package observe

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a minimal structured logging interface.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods should honor cancellation/deadlines where applicable.
// - Errors: logging must be best-effort and must not panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)

	// WithProbe returns a logger that tags every entry with the probe name.
	WithProbe(meta ProbeMeta) Logger
}

// Field represents a structured log field.
type Field struct {
	Key   string
	Value any
}

// LogLevel represents a logging level.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses a string log level. Unknown values map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// zapLogger adapts a *zap.Logger to Logger.
type zapLogger struct {
	z *zap.Logger
}

// NewLogger creates a JSON logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter creates a JSON logger writing to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return newZapLogger(ParseLogLevel(level), zapcore.AddSync(w))
}

func newFileLogger(level, dir string) (*zapLogger, *lumberjack.Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, err
	}
	sink := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "status.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
	return newZapLogger(ParseLogLevel(level), zapcore.AddSync(sink)), sink, nil
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

func newZapLogger(level LogLevel, ws zapcore.WriteSyncer) *zapLogger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "msg"
	cfg.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.Lock(ws), level.zapLevel())
	return &zapLogger{z: zap.New(core)}
}

func (l *zapLogger) WithProbe(meta ProbeMeta) Logger {
	fields := []zap.Field{zap.String("probe.name", meta.Name)}
	if group := meta.Group(); group != "" {
		fields = append(fields, zap.String("probe.group", group))
	}
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, toZapFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, toZapFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, toZapFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, toZapFields(fields)...)
}

func toZapFields(fields []Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if isRedactedField(f.Key) {
			out = append(out, zap.String(f.Key, "[REDACTED]"))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func isRedactedField(key string) bool {
	return slices.Contains(RedactedFields, key)
}

type noopLogger struct{}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Info(context.Context, string, ...Field)  {}
func (noopLogger) Warn(context.Context, string, ...Field)  {}
func (noopLogger) Error(context.Context, string, ...Field) {}
func (noopLogger) Debug(context.Context, string, ...Field) {}
func (l noopLogger) WithProbe(ProbeMeta) Logger            { return l }

var (
	_ Logger = (*zapLogger)(nil)
	_ Logger = noopLogger{}
)
