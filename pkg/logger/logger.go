// Package logger provides the structured logging interface used across the
// service, backed by zap.
package logger

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the logging interface.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// Field constructors.
func String(key, val string) Field                 { return Field{Key: key, Value: val} }
func Int(key string, val int) Field                { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field        { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field              { return Field{Key: key, Value: val} }
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }
func Any(key string, val any) Field                { return Field{Key: key, Value: val} }
func Error(err error) Field                        { return Field{Key: "error", Value: err} }

// Format selects the encoder.
type Format string

const (
	// FormatJSON writes one JSON object per entry.
	FormatJSON Format = "json"
	// FormatConsole writes human-readable lines.
	FormatConsole Format = "console"
)

// zapLogger implements Logger on top of a zap core.
type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.z.Info(msg, convertFields(fields)...)
}

func (l *zapLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.z.Error(msg, convertFields(fields)...)
}

func (l *zapLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.z.Debug(msg, convertFields(fields)...)
}

func (l *zapLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.z.Warn(msg, convertFields(fields)...)
}

func (l *zapLogger) Fatal(_ context.Context, msg string, fields ...Field) {
	l.z.Fatal(msg, convertFields(fields)...)
}

func convertFields(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if err, ok := f.Value.(error); ok && f.Key == "error" {
			out[i] = zap.Error(err)
			continue
		}
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}

var (
	mu     sync.RWMutex
	global Logger
	base   *zap.Logger
	level  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Init builds the global logger writing to stdout. It may be called again
// to switch format.
func Init(format ...Format) error {
	f := FormatJSON
	if len(format) > 0 {
		f = format[0]
	}
	return InitTo("stdout", f)
}

// InitTo builds the global logger writing to output, a zap sink path such
// as "stderr" or a file name.
func InitTo(output string, format Format) error {
	var cfg zap.Config
	if format == FormatConsole {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = level
	cfg.OutputPaths = []string{output}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return eris.Wrap(err, "logger: build")
	}

	mu.Lock()
	base = z
	global = &zapLogger{z: z}
	mu.Unlock()
	return nil
}

// New wraps an existing zap logger, mainly for tests using zaptest/observer.
func New(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// Get returns the global logger.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	if global == nil {
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named creates a named logger.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries.
func Sync() error {
	mu.RLock()
	z := base
	mu.RUnlock()
	if z == nil {
		return nil
	}
	// stdout cannot be fsynced on most platforms; that error is noise.
	if err := z.Sync(); err != nil && !strings.Contains(err.Error(), "sync /dev/std") {
		return err
	}
	return nil
}

// SetLevelString parses and sets the logging level.
// Accepts: debug, info, warn/warning, error (case-insensitive).
func SetLevelString(lvl string) error {
	s := strings.ToLower(strings.TrimSpace(lvl))
	switch s {
	case "":
		s = "info"
	case "warning":
		s = "warn"
	}
	parsed, err := zapcore.ParseLevel(s)
	if err != nil {
		return eris.Wrapf(err, "unknown log level: %s", lvl)
	}
	level.SetLevel(parsed)
	return nil
}

// Level returns the current level name.
func Level() string {
	return level.Level().String()
}
