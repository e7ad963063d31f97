package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/giantswarm/sidecar/internal/locate"
	"github.com/giantswarm/sidecar/internal/lockfile"
	"github.com/giantswarm/sidecar/internal/netutil"
	"github.com/giantswarm/sidecar/internal/process"
	"github.com/giantswarm/sidecar/internal/sentinel"
)

// ErrArtifactNotFound is returned by Start when neither the development nor
// the packaged artifact exists. The host continues without a backend.
const ErrArtifactNotFound = sentinel.Error("backend artifact not found")

// ErrAlreadyStarted is returned by Start on every call after the first.
const ErrAlreadyStarted = sentinel.Error("supervisor already started")

// ErrShuttingDown is returned by Start once a termination has been requested.
const ErrShuttingDown = sentinel.Error("supervisor is shutting down")

// ErrNotStarted is returned by WaitReady when no backend process is held.
const ErrNotStarted = sentinel.Error("backend not started")

// ErrBackendLocked is returned by Start when another host instance already
// owns the backend lock.
const ErrBackendLocked = sentinel.Error("backend owned by another host instance")

// ErrSpawnFailed is re-exported from process so the public API imports only
// from core.
const ErrSpawnFailed = process.ErrSpawnFailed

// ErrProcessExited is re-exported from process so the public API imports
// only from core.
const ErrProcessExited = process.ErrProcessExited

// ErrNotReady is returned by WaitReady when the backend is still running but
// did not become ready within the configured timeout or attempts.
const ErrNotReady = process.ErrNotReady

// ErrBackendUnhealthy is returned by WaitReady when the health endpoint
// reports that the backend failed to load its data. Polling stops at once;
// the backend needs user intervention rather than more time.
const ErrBackendUnhealthy = sentinel.Error("backend reported a data error")

// processName labels the child in log entries.
const processName = "backend"

// lockFileName is created inside SupervisorConfig.LogDir.
const lockFileName = "backend.lock"

// SpawnFunc starts the backend and returns its handle. It takes ownership of
// sink, which may be nil.
type SpawnFunc func(runtime, artifact string, sink *process.DiagnosticSink) (process.Handle, error)

// exitNotifier is implemented by handles that report their own exit.
type exitNotifier interface {
	Exited() <-chan struct{}
	ExitCode() int
}

// Resolution describes the paths a Supervisor would use, for diagnostics.
type Resolution struct {
	BuildMode          BuildMode
	ProjectRoot        string
	Runtime            string
	BundledRuntimePath string
	Artifact           string
	ArtifactFound      bool
	DevArtifactPath    string
	PackagedPath       string
	LogPath            string
}

// Supervisor launches the backend once and terminates it at most once.
// It is safe for concurrent use by multiple goroutines.
//
// State:
//   - started flips on the first Start call; later calls are rejected.
//   - shuttingDown flips on the first termination request. Start checks it
//     after installing the handle, so a termination that races startup still
//     takes the freshly started child down.
//   - cell is the only place the child handle lives.
//   - pendingLock holds the instance lock for handles that cannot report
//     their own exit; it is released on termination instead.
type Supervisor struct {
	cfg SupervisorConfig
	log *slog.Logger

	artifacts *locate.ArtifactLocator
	runtimes  *locate.RuntimeLocator
	spawn     SpawnFunc
	ports     netutil.PortChecker

	cell *process.Cell

	started      atomic.Bool
	shuttingDown atomic.Bool
	pendingLock  atomic.Pointer[lockfile.Lock]
}

// NewSupervisor creates a Supervisor with the provided configuration. This
// performs no I/O; call Start to launch the backend.
//
// Panics if cfg.Validate() reports any errors, since invalid configuration is
// a programmer error.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("sidecar: invalid supervisor config: %v", err))
	}
	log := loggerFor(cfg)
	launcher := process.Launcher{
		ArtifactFlag: cfg.ArtifactFlag,
		RuntimeArgs:  cfg.RuntimeArgs,
		HideConsole:  cfg.BuildMode == BuildRelease,
		Logger:       log,
	}
	return &Supervisor{
		cfg: cfg,
		log: log,
		artifacts: locate.NewArtifactLocator(locate.ArtifactConfig{
			ProjectRoot:  cfg.ProjectRoot,
			SearchDirs:   cfg.ProjectSearchDirs,
			Markers:      cfg.ProjectMarkers,
			DevSubpath:   cfg.DevArtifactPath,
			ResourceDir:  cfg.ResourceDir,
			PackagedName: cfg.PackagedArtifactName,
			Logger:       log,
		}),
		runtimes: locate.NewRuntimeLocator(locate.RuntimeConfig{
			SystemCommand:  cfg.RuntimeCommand,
			PreferBundled:  cfg.BundledRuntime && cfg.BuildMode == BuildRelease,
			ResourceDir:    cfg.ResourceDir,
			BundledSubpath: cfg.BundledRuntimeDir,
			BundledName:    cfg.BundledRuntimeName,
			Logger:         log,
		}),
		spawn: func(runtime, artifact string, sink *process.DiagnosticSink) (process.Handle, error) {
			p, err := launcher.Spawn(runtime, artifact, sink)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		cell: process.NewCell(processName, log),
	}
}

// SetSpawnFunc replaces the function used to start the backend. It must be
// called before Start.
func (s *Supervisor) SetSpawnFunc(fn SpawnFunc) {
	s.spawn = fn
}

// Config returns the supervisor's configuration.
func (s *Supervisor) Config() SupervisorConfig {
	return s.cfg
}

// LogPath returns the diagnostic log path, or "" when diagnostics are disabled.
func (s *Supervisor) LogPath() string {
	if s.cfg.LogDir == "" {
		return ""
	}
	return filepath.Join(s.cfg.LogDir, s.cfg.LogFileName)
}

// Resolve reports the runtime and artifact Start would use. It touches the
// filesystem only to check for existence.
func (s *Supervisor) Resolve() Resolution {
	artifact, ok := s.artifacts.Locate()
	return Resolution{
		BuildMode:          s.cfg.BuildMode,
		ProjectRoot:        s.artifacts.ProjectRoot(),
		Runtime:            s.runtimes.Locate(),
		BundledRuntimePath: s.runtimes.BundledPath(),
		Artifact:           artifact,
		ArtifactFound:      ok,
		DevArtifactPath:    s.artifacts.DevPath(),
		PackagedPath:       s.artifacts.PackagedPath(),
		LogPath:            s.LogPath(),
	}
}

// Start resolves the runtime and artifact and launches the backend. It runs
// at most once per Supervisor and never blocks on the child.
//
// Every returned error is informational: the host must carry on without a
// backend. Returns ErrArtifactNotFound, ErrBackendLocked, ErrAlreadyStarted,
// ErrShuttingDown, the context error, or an error matching ErrSpawnFailed.
func (s *Supervisor) Start(ctx context.Context) error {
	log := s.log
	if !s.started.CompareAndSwap(false, true) {
		log.Warn("supervisor already started; ignoring")
		return ErrAlreadyStarted
	}
	if s.shuttingDown.Load() {
		log.Info("shutdown requested before startup; not starting backend")
		return ErrShuttingDown
	}
	if err := ctx.Err(); err != nil {
		log.Warn("startup canceled before launch; continuing without backend", "error", err)
		return fmt.Errorf("start backend: %w", err)
	}

	runtime := s.runtimes.Locate()
	log.Info("resolved backend runtime", "runtime", runtime, "mode", s.cfg.BuildMode.String())

	artifact, ok := s.artifacts.Locate()
	if !ok {
		log.Warn("backend artifact not found; continuing without backend",
			"dev_path", s.artifacts.DevPath(), "packaged_path", s.artifacts.PackagedPath())
		return ErrArtifactNotFound
	}
	log.Info("resolved backend artifact", "artifact", artifact)

	lock, err := s.acquireLock()
	if err != nil {
		return err
	}

	addr := netutil.LoopbackAddr(s.cfg.ReadyPort)
	if s.ports.Listening(ctx, addr) {
		log.Warn("backend port already in use before launch", "port", s.cfg.ReadyPort)
	}

	h, err := s.spawn(runtime, artifact, s.openSink())
	if err != nil {
		lock.Release(log)
		log.Error("failed to start backend; continuing without backend",
			"runtime", runtime, "artifact", artifact, "error", err)
		return err
	}

	s.cell.Install(h)
	log.Info("backend process started", "pid", h.Pid())
	s.watchExit(h, lock)

	// A termination that ran between the shuttingDown check above and
	// Install saw an empty cell. Whichever of us takes the handle kills it.
	if s.shuttingDown.Load() {
		s.terminate("startup_race")
	}
	return nil
}

// acquireLock takes the instance lock when enabled. A lock held by another
// instance aborts startup; any other locking failure is logged and ignored.
func (s *Supervisor) acquireLock() (*lockfile.Lock, error) {
	if !s.cfg.InstanceLock || s.cfg.LogDir == "" {
		return nil, nil
	}
	log := s.log
	path := filepath.Join(s.cfg.LogDir, lockFileName)
	lock, err := lockfile.TryAcquire(path)
	switch {
	case errors.Is(err, lockfile.ErrLocked):
		log.Warn("backend already owned by another host instance; continuing without backend",
			"path", path)
		return nil, ErrBackendLocked
	case err != nil:
		log.Warn("could not take backend lock; starting without it", "path", path, "error", err)
		return nil, nil
	}
	return lock, nil
}

// openSink opens the diagnostic log. Failure is logged and yields a nil sink,
// which launches the backend without redirection.
func (s *Supervisor) openSink() *process.DiagnosticSink {
	path := s.LogPath()
	if path == "" {
		return nil
	}
	sink, err := process.OpenSink(path)
	if err != nil {
		s.log.Warn("diagnostic log unavailable; backend output will not be recorded",
			"path", path, "error", err)
		return nil
	}
	s.log.Info("backend log file", "path", path)
	return sink
}

// watchExit logs the child's exit and releases the instance lock once the
// child is gone. Handles that cannot report their exit keep the lock until
// termination.
func (s *Supervisor) watchExit(h process.Handle, lock *lockfile.Lock) {
	n, ok := h.(exitNotifier)
	if !ok {
		if lock != nil {
			s.pendingLock.Store(lock)
		}
		return
	}
	pid := h.Pid()
	go func() {
		<-n.Exited()
		s.log.Info("backend process exited", "pid", pid, "exit_code", n.ExitCode())
		lock.Release(s.log)
	}()
}

// Terminate removes the backend handle and kills the child. Safe to call any
// number of times from any goroutine, before or after Start; only the first
// call that finds a handle signals it.
func (s *Supervisor) Terminate() {
	s.terminate("terminate")
}

// OnWindowDestroyed is the host hook for the primary window going away.
func (s *Supervisor) OnWindowDestroyed() {
	if !s.cfg.TerminateOnWindowDestroyed {
		s.log.Debug("window destroyed; termination on this event is disabled")
		return
	}
	s.terminate("window_destroyed")
}

// OnAppExit is the host hook for the application run loop exiting.
func (s *Supervisor) OnAppExit() {
	if !s.cfg.TerminateOnAppExit {
		s.log.Debug("app exiting; termination on this event is disabled")
		return
	}
	s.terminate("app_exit")
}

func (s *Supervisor) terminate(trigger string) {
	s.shuttingDown.Store(true)
	if s.cell.TakeAndTerminate() {
		s.log.Info("backend shutdown triggered", "trigger", trigger)
	}
	if lock := s.pendingLock.Swap(nil); lock != nil {
		lock.Release(s.log)
	}
}

// Pid returns the backend's process id while a live handle is held. Once the
// child has exited it reports false, even before a hook clears the handle.
func (s *Supervisor) Pid() (int, bool) {
	h := s.cell.Peek()
	if h == nil {
		return 0, false
	}
	if n, ok := h.(exitNotifier); ok {
		select {
		case <-n.Exited():
			return 0, false
		default:
		}
	}
	return h.Pid(), true
}

// WaitReady polls the backend until it reports ready. With a ReadyPath it
// issues an HTTP GET and requires a 2xx answer whose data status is not
// "loading"; a data status of "error" stops polling with ErrBackendUnhealthy.
// Without a ReadyPath it only requires the port to accept connections.
//
// Polling also stops when the child exits (ErrProcessExited), ctx is done,
// or ReadyTimeout or ReadyAttempts is exhausted (ErrNotReady). WaitReady is
// never called by Start or the hooks; the host opts into it.
func (s *Supervisor) WaitReady(ctx context.Context) error {
	h := s.cell.Peek()
	if h == nil {
		return ErrNotStarted
	}
	var exited <-chan struct{}
	if n, ok := h.(exitNotifier); ok {
		exited = n.Exited()
	}

	log := s.log
	check, target, done := s.readinessCheck()
	defer done()

	r := process.Readiness{
		Name:        processName,
		Interval:    s.cfg.ReadyInterval,
		Timeout:     s.cfg.ReadyTimeout,
		MaxAttempts: s.cfg.ReadyAttempts,
		Exited:      exited,
		Logger:      log,
	}
	if err := r.Wait(ctx, check); err != nil {
		log.Warn("backend not ready", "target", target, "error", err)
		return fmt.Errorf("wait for %s: %w", target, err)
	}
	log.Info("backend ready", "target", target)
	return nil
}

// readinessCheck returns the per-attempt check, a description of what it
// polls, and a cleanup func.
func (s *Supervisor) readinessCheck() (process.CheckFunc, string, func()) {
	if s.cfg.ReadyPath == "" {
		addr := netutil.LoopbackAddr(s.cfg.ReadyPort)
		return func(ctx context.Context) (process.Observation, error) {
			if !s.ports.Listening(ctx, addr) {
				return process.Observation{Detail: "port not accepting connections"}, nil
			}
			return process.Observation{Ready: true}, nil
		}, addr, func() {}
	}

	hc := netutil.NewHealthChecker(s.cfg.ReadyPort, s.cfg.ReadyPath, 0)
	return func(ctx context.Context) (process.Observation, error) {
		st, err := hc.Check(ctx)
		switch {
		case err != nil:
			return process.Observation{Detail: err.Error()}, nil
		case st.Failed():
			if st.DataError == "" {
				return process.Observation{}, ErrBackendUnhealthy
			}
			return process.Observation{}, fmt.Errorf("%w: %s", ErrBackendUnhealthy, st.DataError)
		case st.Loading():
			return process.Observation{Detail: "data still loading"}, nil
		}
		if st.Version != "" {
			s.log.Debug("backend health", "status", st.Status, "version", st.Version)
		}
		return process.Observation{Ready: true}, nil
	}, hc.URL(), hc.Close
}
