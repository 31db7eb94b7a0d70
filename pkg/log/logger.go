package log

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger behind printf-style helpers.
type Logger struct {
	sugar *zap.SugaredLogger
}

// Options controls logger construction.
//
// Debug enables debug-level output. File, when non-empty, duplicates all
// entries into an append-only timestamped log file next to stdout.
type Options struct {
	Debug bool
	File  string
}

func newEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

// New creates a logger writing to stdout and, optionally, a debug log file.
func New(opts Options) (*Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(newEncoderConfig())
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(file), level))
	}

	base := zap.New(zapcore.NewTee(cores...))
	return &Logger{sugar: base.Sugar()}, nil
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatal(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

var (
	mu     sync.RWMutex
	global *Logger
)

// Init installs the global logger used by the package-level helpers.
func Init(opts Options) error {
	logger, err := New(opts)
	if err != nil {
		return err
	}
	mu.Lock()
	global = logger
	mu.Unlock()
	return nil
}

func getLogger() *Logger {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		global, _ = New(Options{})
	}
	return global
}

// Convenience functions
func Debug(format string, args ...interface{}) { getLogger().Debug(format, args...) }
func Info(format string, args ...interface{})  { getLogger().Info(format, args...) }
func Warn(format string, args ...interface{})  { getLogger().Warn(format, args...) }
func Error(format string, args ...interface{}) { getLogger().Error(format, args...) }
func Fatal(format string, args ...interface{}) { getLogger().Fatal(format, args...) }

// Sync flushes the global logger, if any.
func Sync() {
	mu.RLock()
	l := global
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}
