package locate

import (
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/giantswarm/sidecar/internal/fileutil"
)

// RuntimeConfig configures runtime discovery.
type RuntimeConfig struct {
	// SystemCommand is the bare command name resolved through PATH, e.g. "java".
	SystemCommand string
	// PreferBundled enables the bundled-runtime lookup. The caller sets it
	// only for release builds; development builds always use SystemCommand.
	PreferBundled bool
	// ResourceDir is the host's bundled resources directory.
	ResourceDir string
	// BundledSubpath is the directory holding the bundled executable,
	// relative to ResourceDir, e.g. "jre/bin".
	BundledSubpath string
	// BundledName is the executable name without platform suffix.
	BundledName string
	// GOOS overrides the target platform for the executable suffix. Empty
	// uses runtime.GOOS.
	GOOS string
	// Logger (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// RuntimeLocator chooses the executable that runs the backend artifact.
type RuntimeLocator struct {
	cfg RuntimeConfig
	log *slog.Logger
}

// NewRuntimeLocator builds a RuntimeLocator from cfg. It performs no I/O.
func NewRuntimeLocator(cfg RuntimeConfig) *RuntimeLocator {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	return &RuntimeLocator{cfg: cfg, log: log}
}

// BundledPath returns the absolute path where a bundled runtime is expected,
// or "" when the bundled lookup cannot apply.
func (l *RuntimeLocator) BundledPath() string {
	if l.cfg.ResourceDir == "" || l.cfg.BundledName == "" {
		return ""
	}
	return filepath.Join(l.cfg.ResourceDir, filepath.FromSlash(l.cfg.BundledSubpath),
		ExecutableName(l.cfg.BundledName, l.cfg.GOOS))
}

// Locate returns the runtime to invoke. It never fails: when no bundled
// runtime is usable it falls back to the system command and leaves any
// "not found" condition to the spawn.
func (l *RuntimeLocator) Locate() string {
	if !l.cfg.PreferBundled {
		return l.cfg.SystemCommand
	}
	bundled := l.BundledPath()
	if bundled == "" {
		l.log.Warn("no resource directory for bundled runtime, falling back to system runtime",
			"runtime", l.cfg.SystemCommand)
		return l.cfg.SystemCommand
	}
	if fileutil.IsFile(bundled) {
		l.log.Info("using bundled runtime", "runtime", bundled)
		return bundled
	}
	l.log.Warn("bundled runtime not found, falling back to system runtime",
		"path", bundled, "runtime", l.cfg.SystemCommand)
	return l.cfg.SystemCommand
}

// ExecutableName appends the platform executable suffix to name.
func ExecutableName(name, goos string) string {
	if goos == "windows" {
		return name + ".exe"
	}
	return name
}
