package belso

import (
	"log/slog"
	"sync"
)

var (
	loggerMu      sync.RWMutex
	currentLogger = slog.Default()
)

// SetLogger replaces the package logger used by the model, the translators
// and the validator; nil restores slog.Default().
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	loggerMu.Lock()
	currentLogger = l
	loggerMu.Unlock()
}

// Logger returns the current package logger.
func Logger() *slog.Logger {
	loggerMu.RLock()
	l := currentLogger
	loggerMu.RUnlock()
	return l
}
