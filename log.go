package sidecar

import (
	"log/slog"

	"github.com/giantswarm/sidecar/internal/core"
)

// SetLogger replaces the package-level logger used by supervisors that were
// not given one through WithLogger. The provided logger is used as given;
// sidecar will not add a "component" attribute to it.
//
// If l is nil, sidecar logs to slog.Default() with a "component" attribute.
// Supervisors pick the logger up in NewSupervisor, so call SetLogger first.
//
// Example:
//
//	sidecar.SetLogger(myLogger.With("component", "sidecar"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
