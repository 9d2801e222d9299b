// Package logging provides the module's shared structured logger,
// following wippyai-wasm-runtime/engine/logger.go's shape: a no-op logger
// by default, swappable by the CLI when -d/--debug is set.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu     sync.RWMutex
	logger *zap.Logger
)

// L returns the shared logger. It defaults to a no-op logger so library
// code never prints unless a caller has opted in via SetLogger.
func L() *zap.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// SetLogger replaces the shared logger. The CLI calls this once, with
// zap.NewExample(), under -d/--debug; otherwise the no-op default stays.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
