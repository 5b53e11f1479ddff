// Package logging holds the process-wide structured logger. Commands call
// Init once at startup; library code fetches the logger with L and stays
// silent unless debug logging was enabled.
package logging

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// Init configures the global logger. Debug enables development output
// with per-call site annotations; otherwise logging stays off so report
// output is the only thing on the terminal.
func Init(debug bool) error {
	if !debug {
		logger = zap.NewNop().Sugar()
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l.Sugar()
	return nil
}

// L returns the current global logger.
func L() *zap.SugaredLogger {
	return logger
}

// Sync flushes buffered log entries. Safe to call on the nop logger.
func Sync() {
	_ = logger.Sync()
}
