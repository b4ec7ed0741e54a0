package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields is a map of structured logging fields
type Fields map[string]any

// Logger is the structured logging interface used across the application
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

// zapLogger implements Logger on top of a zap.SugaredLogger
type zapLogger struct {
	sugar *zap.SugaredLogger
}

var defaultLogger = newZapLogger("info")

// NewDefaultLogger returns the process-wide default logger
func NewDefaultLogger() Logger {
	return defaultLogger
}

// NewLogger creates a logger at the given level (debug, info, warn, error)
func NewLogger(level string) Logger {
	return newZapLogger(level)
}

// SetDefaultLevel replaces the default logger with one at the given level
func SetDefaultLevel(level string) {
	defaultLogger = newZapLogger(level)
}

// WithFields returns the default logger with the given fields attached
func WithFields(fields Fields) Logger {
	return defaultLogger.WithFields(fields)
}

func newZapLogger(level string) *zapLogger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		zapLevel,
	)

	return &zapLogger{sugar: zap.New(core).Sugar()}
}

func flatten(fields []Fields) []any {
	var kv []any
	for _, f := range fields {
		for k, v := range f {
			kv = append(kv, k, v)
		}
	}
	return kv
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.sugar.Debugw(msg, flatten(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.sugar.Infow(msg, flatten(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.sugar.Warnw(msg, flatten(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Fields) {
	l.sugar.Errorw(msg, flatten(fields)...)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{sugar: l.sugar.With(flatten([]Fields{fields})...)}
}
