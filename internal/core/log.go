package core

import (
	"log/slog"
	"sync/atomic"
)

// Attribute added to loggers the package derives itself.
const (
	componentKey  = "component"
	componentName = "sidecar"
)

// fallbackLogger is used by supervisors configured without a Logger. nil
// means none has been set and slog.Default() is used.
var fallbackLogger atomic.Pointer[slog.Logger]

// Logger returns the logger set by SetLogger or, when none is set, the
// current slog.Default() tagged with the sidecar component. It never returns
// nil.
func Logger() *slog.Logger {
	if l := fallbackLogger.Load(); l != nil {
		return l
	}
	return slog.Default().With(componentKey, componentName)
}

// SetLogger replaces the fallback logger. l is used as given; nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	fallbackLogger.Store(l)
}

// loggerFor returns the logger a Supervisor keeps for its lifetime.
func loggerFor(cfg SupervisorConfig) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger.With(componentKey, componentName)
	}
	return Logger()
}
