// Package logger holds the process-wide structured logger.
package logger

import (
	"sync"

	"github.com/theory-cloud/sitetheory/pkg/observability"
	zaplog "github.com/theory-cloud/sitetheory/pkg/observability/zap"
)

var (
	mu     sync.RWMutex
	global observability.StructuredLogger = zaplog.Nop()
)

// Logger returns the logger set by SetLogger, or one that discards everything.
func Logger() observability.StructuredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// SetLogger replaces the global logger. nil restores the discarding default.
func SetLogger(next observability.StructuredLogger) {
	mu.Lock()
	defer mu.Unlock()
	if next == nil {
		next = zaplog.Nop()
	}
	global = next
}
