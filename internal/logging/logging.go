// Copyright (c) 2025-2026 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging provides the debug file logger for sage.
//
// The TUI owns stdout and stderr, so diagnostics go to a log file under the
// sage config directory instead. Logging is disabled unless debug mode is
// enabled in the config (or via SAGE_DEBUG); when disabled every call hits
// a nop logger and nothing is written.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the file logger. dir is the sage config directory
// (e.g. ~/.sage); the log is written to <dir>/sage.log. When debug is
// false the global logger stays a nop and the file is never touched.
func Init(dir string, debug bool) error {
	if !debug {
		return nil
	}
	if dir == "" {
		return fmt.Errorf("log directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{filepath.Join(dir, "sage.log")}
	cfg.ErrorOutputPaths = cfg.OutputPaths

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

// L returns the global logger. Always non-nil; a nop logger before Init.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes any buffered log entries. Call before exit.
func Sync() {
	mu.RLock()
	l := logger
	mu.RUnlock()
	_ = l.Sync()
}
