package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It discards everything until Init is called.
var Log = zap.NewNop()

// Options controls how Init builds the global logger.
type Options struct {
	Level       string // debug, info, warn, error
	Development bool   // human readable console output
}

// Init replaces the global logger according to opts.
func Init(opts Options) error {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return fmt.Errorf("logger: invalid level %q: %w", opts.Level, err)
		}
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("logger: build: %w", err)
	}
	Log = built
	return nil
}

// Set swaps the global logger and returns a function restoring the previous one.
// Tests use it with zaptest/observer cores.
func Set(l *zap.Logger) (restore func()) {
	prev := Log
	Log = l
	return func() { Log = prev }
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
