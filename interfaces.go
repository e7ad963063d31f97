package sidecar

import "context"

// Supervisor owns the host application's backend process.
//
// The expected lifecycle is:
//
//	NewSupervisor → Start (once) → Terminate / shutdown hooks (any number)
//
// Every method is safe for concurrent use and none of them may crash or
// block the host on the backend's behalf.
type Supervisor interface {
	// Start locates the artifact and runtime and launches the backend. It
	// never waits for the backend and runs at most once.
	//
	// The returned error is informational and the host must carry on
	// regardless: ErrArtifactNotFound, ErrBackendLocked, ErrAlreadyStarted,
	// ErrShuttingDown, a context error, or an error matching ErrSpawnFailed.
	Start(ctx context.Context) error

	// Terminate kills the backend if one is running. Safe to call any number
	// of times, before or after Start; only the first call that finds a
	// backend sends the signal. Termination failures are logged, not returned.
	Terminate()

	// WaitReady polls the backend's health endpoint until it reports ready,
	// or only its port when configured WithTCPReadiness. Returns
	// ErrNotStarted when no backend runs, ErrProcessExited when the backend
	// dies first, ErrBackendUnhealthy when it reports a data error and
	// ErrNotReady when the attempts run out. Optional; Start never calls it.
	WaitReady(ctx context.Context) error

	// Pid returns the backend's process id while it is running.
	Pid() (int, bool)

	// Resolve reports the paths Start would use without launching anything.
	Resolve() Resolution

	// Hooks returns closures for the host event loop. Every call returns
	// closures over the same supervisor.
	Hooks() Hooks
}

// Hooks are the host lifecycle callbacks. They close over a single
// Supervisor, so the host registers them without reaching into any global
// state.
type Hooks struct {
	// OnStartup runs Start and logs rather than returns its outcome.
	// Invoke once after the host environment is ready.
	OnStartup func(ctx context.Context)

	// OnWindowDestroyed terminates the backend when the primary window goes
	// away, unless disabled with WithWindowDestroyedTrigger(false).
	OnWindowDestroyed func()

	// OnAppExit terminates the backend when the host run loop exits, unless
	// disabled with WithAppExitTrigger(false).
	OnAppExit func()
}
