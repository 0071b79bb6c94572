package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SafeLogger wraps a zap logger and tolerates nil receivers and nil loggers,
// so components built in tests without InitLogger never panic.
type SafeLogger struct {
	logger *zap.Logger
}

var (
	// Logger is the global logger instance; it is a no-op until InitLogger runs.
	Logger = &SafeLogger{logger: zap.NewNop()}
)

// NewSafeLogger wraps an existing zap logger.
func NewSafeLogger(l *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: l}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "app-pessoas"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = &SafeLogger{logger: l}
	zap.ReplaceGlobals(l)
	return nil
}

func (l *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug(msg, fields...)
}

func (l *SafeLogger) Info(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info(msg, fields...)
}

func (l *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn(msg, fields...)
}

func (l *SafeLogger) Error(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Error(msg, fields...)
}

// Fatal logs and exits; with no underlying logger it still exits.
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		os.Exit(1)
	}
	l.logger.Fatal(msg, fields...)
}

// With returns a child logger carrying fields.
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	if l == nil || l.logger == nil {
		return l
	}
	return &SafeLogger{logger: l.logger.With(fields...)}
}

// Named returns a child logger with a name segment appended.
func (l *SafeLogger) Named(name string) *SafeLogger {
	if l == nil || l.logger == nil {
		return l
	}
	return &SafeLogger{logger: l.logger.Named(name)}
}

// Unwrap returns the underlying zap logger, or a no-op logger.
func (l *SafeLogger) Unwrap() *zap.Logger {
	if l == nil || l.logger == nil {
		return zap.NewNop()
	}
	return l.logger
}

// Sync flushes buffered entries.
func (l *SafeLogger) Sync() error {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger.Sync()
}
