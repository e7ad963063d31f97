package sidecar

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("sidecar: %s must be greater than 0, got %v", name, v))
	}
}

// requireNonEmpty panics if s is empty with a descriptive message.
func requireNonEmpty(name, s string) {
	if s == "" {
		panic(fmt.Sprintf("sidecar: %s must not be empty", name))
	}
}

// Option configures a Supervisor during construction via NewSupervisor.
//
// Several With* functions panic on invalid input (empty paths, non-positive
// durations, out-of-range ports). Option values are typically literals chosen
// by the host's developers, so an invalid value is a programmer error and
// fails at initialization rather than at startup.
type Option func(*supervisorConfig)

// WithBuildMode overrides the build mode chosen at compile time.
//
// Default: DefaultBuildMode (BuildRelease with -tags release, otherwise
// BuildDevelopment).
//
// Panics if mode is not a known BuildMode.
func WithBuildMode(mode BuildMode) Option {
	if !mode.IsValid() {
		panic(fmt.Sprintf("sidecar: invalid build mode: %v", mode))
	}
	return func(c *supervisorConfig) {
		c.BuildMode = mode
	}
}

// WithProjectRoot sets the project root that the development artifact path
// is relative to, skipping the upward search. A relative dir is resolved
// against the working directory.
//
// Default: discovered, see WithProjectSearchDirs.
//
// Panics if dir is empty.
func WithProjectRoot(dir string) Option {
	requireNonEmpty("project root", dir)
	return func(c *supervisorConfig) {
		c.ProjectRoot = dir
	}
}

// WithProjectSearchDirs sets the directories the project root is searched
// for from, in order. From each one the search walks upward to the
// filesystem root looking for the built development artifact; if none is
// found, the nearest directory holding one of markers wins. A nil markers
// keeps the current markers.
//
// Default: the working directory and the executable's directory, with
// DefaultProjectMarkers.
//
// Panics if dirs is empty.
func WithProjectSearchDirs(dirs []string, markers ...string) Option {
	if len(dirs) == 0 {
		panic("sidecar: project search dirs must not be empty")
	}
	dirs = slices.Clone(dirs)
	markers = slices.Clone(markers)
	return func(c *supervisorConfig) {
		c.ProjectRoot = ""
		c.ProjectSearchDirs = dirs
		if len(markers) > 0 {
			c.ProjectMarkers = markers
		}
	}
}

// WithDevArtifactPath sets the development artifact path relative to the
// project root, using forward slashes.
//
// Default: DefaultDevArtifactPath.
//
// Panics if rel is empty.
func WithDevArtifactPath(rel string) Option {
	requireNonEmpty("dev artifact path", rel)
	return func(c *supervisorConfig) {
		c.DevArtifactPath = rel
	}
}

// WithResourceDir sets the host's bundled resources directory, which holds
// the packaged artifact and the bundled runtime.
//
// Default: the directory of the host executable.
//
// Panics if dir is empty.
func WithResourceDir(dir string) Option {
	requireNonEmpty("resource dir", dir)
	return func(c *supervisorConfig) {
		c.ResourceDir = dir
	}
}

// WithPackagedArtifactName sets the artifact file name inside the resource
// directory.
//
// Default: DefaultPackagedArtifactName.
//
// Panics if name is empty.
func WithPackagedArtifactName(name string) Option {
	requireNonEmpty("packaged artifact name", name)
	return func(c *supervisorConfig) {
		c.PackagedArtifactName = name
	}
}

// WithRuntimeCommand sets the system runtime command resolved through PATH.
//
// Default: DefaultRuntimeCommand.
//
// Panics if cmd is empty.
func WithRuntimeCommand(cmd string) Option {
	requireNonEmpty("runtime command", cmd)
	return func(c *supervisorConfig) {
		c.RuntimeCommand = cmd
	}
}

// WithRuntimeArgs sets extra runtime arguments placed before the artifact
// flag, for example JVM memory settings. The slice is copied.
func WithRuntimeArgs(args ...string) Option {
	args = slices.Clone(args)
	return func(c *supervisorConfig) {
		c.RuntimeArgs = args
	}
}

// WithArtifactFlag sets the argument that precedes the artifact path. An
// empty flag passes the artifact as the runtime's first argument.
//
// Default: DefaultArtifactFlag.
func WithArtifactFlag(flag string) Option {
	return func(c *supervisorConfig) {
		c.ArtifactFlag = flag
	}
}

// WithBundledRuntime enables or disables the bundled runtime lookup. It only
// has an effect in BuildRelease; development builds always use the system
// runtime.
//
// Default: true.
func WithBundledRuntime(enabled bool) Option {
	return func(c *supervisorConfig) {
		c.BundledRuntime = enabled
	}
}

// WithBundledRuntimePath sets where the bundled runtime lives: dir relative
// to the resource directory and the executable name without platform suffix.
//
// Default: DefaultBundledRuntimeDir and DefaultBundledRuntimeName.
//
// Panics if name is empty.
func WithBundledRuntimePath(dir, name string) Option {
	requireNonEmpty("bundled runtime name", name)
	return func(c *supervisorConfig) {
		c.BundledRuntimeDir = dir
		c.BundledRuntimeName = name
	}
}

// WithLogDir sets the directory holding the diagnostic log and the instance
// lock. It is created on Start if missing.
//
// Default: <user cache dir>/sidecar/logs.
//
// Panics if dir is empty. Use WithoutDiagnostics to disable the log.
func WithLogDir(dir string) Option {
	requireNonEmpty("log dir", dir)
	return func(c *supervisorConfig) {
		c.LogDir = dir
	}
}

// WithLogFileName sets the diagnostic log file name inside the log directory.
//
// Default: DefaultLogFileName.
//
// Panics if name is empty.
func WithLogFileName(name string) Option {
	requireNonEmpty("log file name", name)
	return func(c *supervisorConfig) {
		c.LogFileName = name
	}
}

// WithoutDiagnostics disables the diagnostic log and the instance lock. The
// backend inherits the host's stdout and stderr in BuildDevelopment and has
// its output discarded in BuildRelease.
func WithoutDiagnostics() Option {
	return func(c *supervisorConfig) {
		c.LogDir = ""
	}
}

// WithInstanceLock enables or disables the lock file that keeps two host
// instances sharing a log directory from each running a backend.
//
// Default: true.
func WithInstanceLock(enabled bool) Option {
	return func(c *supervisorConfig) {
		c.InstanceLock = enabled
	}
}

// WithWindowDestroyedTrigger controls whether Hooks().OnWindowDestroyed
// terminates the backend.
//
// Default: true.
func WithWindowDestroyedTrigger(enabled bool) Option {
	return func(c *supervisorConfig) {
		c.TerminateOnWindowDestroyed = enabled
	}
}

// WithAppExitTrigger controls whether Hooks().OnAppExit terminates the
// backend.
//
// Default: true.
func WithAppExitTrigger(enabled bool) Option {
	return func(c *supervisorConfig) {
		c.TerminateOnAppExit = enabled
	}
}

// WithReadyPort sets the loopback port polled by WaitReady.
//
// Default: DefaultReadyPort.
//
// Panics if port is outside 1..65535.
func WithReadyPort(port int) Option {
	if port < 1 || port > 65535 {
		panic(fmt.Sprintf("sidecar: ready port must be in 1..65535, got %d", port))
	}
	return func(c *supervisorConfig) {
		c.ReadyPort = port
	}
}

// WithReadyPath sets the HTTP health endpoint polled by WaitReady. The
// backend is ready once a GET answers 2xx and the body's "dataStatus" is not
// "loading".
//
// Default: DefaultReadyPath.
//
// Panics if path does not start with "/".
func WithReadyPath(path string) Option {
	if !strings.HasPrefix(path, "/") {
		panic(fmt.Sprintf("sidecar: ready path must start with /, got %q", path))
	}
	return func(c *supervisorConfig) {
		c.ReadyPath = path
	}
}

// WithTCPReadiness makes WaitReady treat the backend as ready as soon as its
// port accepts a TCP connection, for backends without a health endpoint.
func WithTCPReadiness() Option {
	return func(c *supervisorConfig) {
		c.ReadyPath = ""
	}
}

// WithReadyInterval sets the pause between readiness checks.
//
// Default: DefaultReadyInterval.
//
// Panics if d <= 0.
func WithReadyInterval(d time.Duration) Option {
	requirePositive("ready interval", d)
	return func(c *supervisorConfig) {
		c.ReadyInterval = d
	}
}

// WithReadyTimeout bounds WaitReady.
//
// Default: DefaultReadyTimeout.
//
// Panics if d <= 0.
func WithReadyTimeout(d time.Duration) Option {
	requirePositive("ready timeout", d)
	return func(c *supervisorConfig) {
		c.ReadyTimeout = d
	}
}

// WithReadyAttempts caps the number of readiness checks WaitReady makes.
// Zero leaves only the timeout.
//
// Default: DefaultReadyAttempts.
//
// Panics if n < 0.
func WithReadyAttempts(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("sidecar: ready attempts must not be negative, got %d", n))
	}
	return func(c *supervisorConfig) {
		c.ReadyAttempts = n
	}
}

// WithLogger sets the logger for this supervisor only. Entries are tagged
// with component=sidecar.
//
// Default: the logger set by SetLogger.
//
// Panics if l is nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("sidecar: logger must not be nil")
	}
	return func(c *supervisorConfig) {
		c.Logger = l
	}
}
