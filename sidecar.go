package sidecar

import (
	"context"

	"github.com/giantswarm/sidecar/internal/core"
)

// Compile-time interface satisfaction check.
var _ Supervisor = (*supervisorWrapper)(nil)

// Resolution describes the runtime and artifact a Supervisor would use.
type Resolution = core.Resolution

// supervisorWrapper wraps core.Supervisor to implement the Supervisor
// interface.
//
// The core.Supervisor is stored as a named (unexported) field rather than
// embedded to prevent callers from using type assertions to reach internal
// methods such as SetSpawnFunc.
type supervisorWrapper struct {
	sup *core.Supervisor
}

// Start wraps core.Supervisor.Start.
func (w *supervisorWrapper) Start(ctx context.Context) error {
	return w.sup.Start(ctx)
}

// Terminate wraps core.Supervisor.Terminate.
func (w *supervisorWrapper) Terminate() {
	w.sup.Terminate()
}

// WaitReady wraps core.Supervisor.WaitReady.
func (w *supervisorWrapper) WaitReady(ctx context.Context) error {
	return w.sup.WaitReady(ctx)
}

// Pid wraps core.Supervisor.Pid.
func (w *supervisorWrapper) Pid() (int, bool) {
	return w.sup.Pid()
}

// Resolve wraps core.Supervisor.Resolve.
func (w *supervisorWrapper) Resolve() Resolution {
	return w.sup.Resolve()
}

// Hooks returns the lifecycle callbacks bound to this supervisor.
func (w *supervisorWrapper) Hooks() Hooks {
	return Hooks{
		OnStartup: func(ctx context.Context) {
			// Start has already logged the outcome at the right level.
			_ = w.sup.Start(ctx)
		},
		OnWindowDestroyed: w.sup.OnWindowDestroyed,
		OnAppExit:         w.sup.OnAppExit,
	}
}

// NewSupervisor returns a Supervisor configured by opts. It performs no I/O;
// call Start, or Hooks().OnStartup, to launch the backend.
//
// Each call returns an independent supervisor. A host normally creates one
// and shares it with every lifecycle callback through Hooks.
//
// Panics if any option receives an invalid value. See individual With*
// functions for constraints.
//
//nolint:ireturn // Returns Supervisor interface by design for testability (mockable).
func NewSupervisor(opts ...Option) Supervisor {
	cfg := defaultSupervisorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &supervisorWrapper{sup: core.NewSupervisor(cfg.toCoreConfig())}
}
