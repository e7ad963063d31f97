package core

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// BuildMode selects between development and release behavior.
type BuildMode int

const (
	// BuildDevelopment always runs the system runtime and leaves the child's
	// console visible for debugging.
	BuildDevelopment BuildMode = iota

	// BuildRelease prefers a bundled runtime and suppresses the child's
	// console window where the platform supports it.
	BuildRelease
)

// IsValid reports whether m is a recognized BuildMode value.
func (m BuildMode) IsValid() bool {
	switch m {
	case BuildDevelopment, BuildRelease:
		return true
	default:
		return false
	}
}

// String returns the name of the mode.
func (m BuildMode) String() string {
	switch m {
	case BuildDevelopment:
		return "development"
	case BuildRelease:
		return "release"
	default:
		return fmt.Sprintf("BuildMode(%d)", int(m))
	}
}

// SupervisorConfig holds configuration for a Supervisor.
//
// All fields are immutable after construction via NewSupervisor; hooks read
// them from arbitrary goroutines without synchronization.
type SupervisorConfig struct {
	BuildMode BuildMode

	// ProjectRoot is the development tree root; DevArtifactPath is relative
	// to it. When empty, the root is searched for upward from each of
	// ProjectSearchDirs: first a directory holding the built artifact, then
	// one holding any of ProjectMarkers. With no search dirs either, the
	// development lookup is disabled.
	ProjectRoot       string
	ProjectSearchDirs []string
	ProjectMarkers    []string
	DevArtifactPath   string

	// ResourceDir is the host's bundled resources directory. It holds the
	// packaged artifact and, in release builds, the bundled runtime.
	ResourceDir          string
	PackagedArtifactName string

	// RuntimeCommand is the system runtime resolved through PATH.
	RuntimeCommand string
	// RuntimeArgs are passed to the runtime before ArtifactFlag.
	RuntimeArgs  []string
	ArtifactFlag string

	// BundledRuntime enables the bundled-runtime lookup in release builds.
	BundledRuntime     bool
	BundledRuntimeDir  string // relative to ResourceDir, e.g. "jre/bin"
	BundledRuntimeName string // without platform suffix, e.g. "java"

	// LogDir receives the diagnostic log and the instance lock. Empty
	// disables output redirection and locking.
	LogDir      string
	LogFileName string

	// InstanceLock holds an exclusive lock in LogDir while the backend runs
	// so a second host instance does not start a second backend.
	InstanceLock bool

	// Which host events terminate the backend.
	TerminateOnWindowDestroyed bool
	TerminateOnAppExit         bool

	// ReadyPort is the TCP port the backend listens on once ready.
	// ReadyPath is the HTTP health endpoint on that port; empty falls back
	// to a plain TCP connect. ReadyAttempts caps the number of checks, zero
	// leaving only ReadyTimeout.
	ReadyPort     int
	ReadyPath     string
	ReadyInterval time.Duration
	ReadyTimeout  time.Duration
	ReadyAttempts int

	// Logger receives this supervisor's log entries, tagged with the sidecar
	// component. Nil uses the package logger.
	Logger *slog.Logger
}

// Validate checks all SupervisorConfig invariants and reports every violation
// at once via errors.Join.
func (c SupervisorConfig) Validate() error {
	var errs []error

	if !c.BuildMode.IsValid() {
		errs = append(errs, fmt.Errorf("invalid build mode: %v", c.BuildMode))
	}
	if c.DevArtifactPath == "" && c.PackagedArtifactName == "" {
		errs = append(errs, errors.New("at least one of dev artifact path or packaged artifact name must be set"))
	}
	if c.RuntimeCommand == "" {
		errs = append(errs, errors.New("runtime command must not be empty"))
	}
	if c.BundledRuntime && c.BundledRuntimeName == "" {
		errs = append(errs, errors.New("bundled runtime name must not be empty when the bundled runtime is enabled"))
	}
	if c.LogDir != "" && c.LogFileName == "" {
		errs = append(errs, errors.New("log file name must not be empty when a log directory is set"))
	}
	if c.ReadyPort <= 0 || c.ReadyPort > 65535 {
		errs = append(errs, fmt.Errorf("ready port must be between 1 and 65535, got %d", c.ReadyPort))
	}
	if c.ReadyPath != "" && !strings.HasPrefix(c.ReadyPath, "/") {
		errs = append(errs, fmt.Errorf("ready path must start with /, got %q", c.ReadyPath))
	}
	if c.ReadyInterval <= 0 {
		errs = append(errs, fmt.Errorf("ready interval must be greater than 0, got %s", c.ReadyInterval))
	}
	if c.ReadyTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ready timeout must be greater than 0, got %s", c.ReadyTimeout))
	}
	if c.ReadyAttempts < 0 {
		errs = append(errs, fmt.Errorf("ready attempts must not be negative, got %d", c.ReadyAttempts))
	}

	return errors.Join(errs...)
}
