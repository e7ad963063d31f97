package sidecar

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/giantswarm/sidecar/internal/core"
	"github.com/giantswarm/sidecar/internal/locate"
)

// Default configuration values for NewSupervisor.
// These constants are exported so callers can reference the defaults
// when building custom configurations relative to them.
const (
	// DefaultRuntimeCommand is the runtime resolved through PATH when no
	// bundled runtime is used.
	DefaultRuntimeCommand = "java"

	// DefaultArtifactFlag tells the runtime that the next argument is the
	// artifact to execute.
	DefaultArtifactFlag = "-jar"

	// DefaultDevArtifactPath is the build output of the backend module,
	// relative to the project root.
	DefaultDevArtifactPath = "backend/build/libs/backend-0.1.0.jar"

	// DefaultPackagedArtifactName is the artifact file name inside the
	// host's resource directory.
	DefaultPackagedArtifactName = "backend.jar"

	// DefaultBundledRuntimeDir is the bundled runtime's directory, relative
	// to the resource directory.
	DefaultBundledRuntimeDir = "jre/bin"

	// DefaultBundledRuntimeName is the bundled runtime executable without
	// its platform suffix.
	DefaultBundledRuntimeName = "java"

	// DefaultLogFileName is the diagnostic log inside the log directory.
	DefaultLogFileName = "backend.log"

	// DefaultLogDirName is the directory under os.UserCacheDir holding the
	// diagnostic log and the instance lock.
	DefaultLogDirName = "sidecar"

	// DefaultReadyPort is the backend's HTTP port polled by WaitReady.
	DefaultReadyPort = 8080

	// DefaultReadyPath is the backend's health endpoint.
	DefaultReadyPath = "/api/health"

	// DefaultReadyInterval is the pause between readiness checks.
	DefaultReadyInterval = time.Second

	// DefaultReadyTimeout bounds WaitReady.
	DefaultReadyTimeout = 30 * time.Second

	// DefaultReadyAttempts caps the number of readiness checks.
	DefaultReadyAttempts = 30
)

// DefaultProjectMarkers are the files and directories that mark the project
// root when the development artifact has not been built yet.
var DefaultProjectMarkers = locate.DefaultProjectMarkers

// defaultSupervisorConfig returns a supervisorConfig populated with all
// default values. Directories are derived from the working directory, the
// running executable and the user cache directory; any that cannot be
// determined are left empty, which disables the corresponding lookup.
//
// The project root is not fixed here. It is searched for upward from the
// working directory and then from the executable's directory, which covers
// "go run" (executable in a temporary build dir) as well as binaries built
// into bin/ or a platform-specific output tree.
func defaultSupervisorConfig() supervisorConfig {
	var resourceDir string
	var searchDirs []string
	if wd, err := os.Getwd(); err == nil {
		searchDirs = append(searchDirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		resourceDir = filepath.Dir(exe)
		searchDirs = append(searchDirs, resourceDir)
	}
	var logDir string
	if cache, err := os.UserCacheDir(); err == nil {
		logDir = filepath.Join(cache, DefaultLogDirName, "logs")
	}

	return supervisorConfig{core.SupervisorConfig{
		BuildMode:                  DefaultBuildMode,
		ProjectSearchDirs:          searchDirs,
		ProjectMarkers:             slices.Clone(DefaultProjectMarkers),
		DevArtifactPath:            DefaultDevArtifactPath,
		ResourceDir:                resourceDir,
		PackagedArtifactName:       DefaultPackagedArtifactName,
		RuntimeCommand:             DefaultRuntimeCommand,
		ArtifactFlag:               DefaultArtifactFlag,
		BundledRuntime:             true,
		BundledRuntimeDir:          DefaultBundledRuntimeDir,
		BundledRuntimeName:         DefaultBundledRuntimeName,
		LogDir:                     logDir,
		LogFileName:                DefaultLogFileName,
		InstanceLock:               true,
		TerminateOnWindowDestroyed: true,
		TerminateOnAppExit:         true,
		ReadyPort:                  DefaultReadyPort,
		ReadyPath:                  DefaultReadyPath,
		ReadyInterval:              DefaultReadyInterval,
		ReadyTimeout:               DefaultReadyTimeout,
		ReadyAttempts:              DefaultReadyAttempts,
	}}
}
