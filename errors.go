package sidecar

import (
	"github.com/giantswarm/sidecar/internal/core"
	"github.com/giantswarm/sidecar/internal/process"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
// None of them is fatal: the host keeps running without a backend.
const (
	// ErrArtifactNotFound is returned by Start when neither the development
	// nor the packaged artifact exists.
	ErrArtifactNotFound = core.ErrArtifactNotFound

	// ErrSpawnFailed matches every launch failure returned by Start. The
	// concrete error is a *LaunchError that also unwraps to the OS cause,
	// e.g. exec.ErrNotFound when the runtime is missing.
	ErrSpawnFailed = core.ErrSpawnFailed

	// ErrAlreadyStarted is returned by Start on every call after the first.
	ErrAlreadyStarted = core.ErrAlreadyStarted

	// ErrShuttingDown is returned by Start when a shutdown hook or Terminate
	// already ran.
	ErrShuttingDown = core.ErrShuttingDown

	// ErrNotStarted is returned by WaitReady when no backend is running.
	ErrNotStarted = core.ErrNotStarted

	// ErrBackendLocked is returned by Start when another host instance
	// sharing the log directory owns the backend.
	ErrBackendLocked = core.ErrBackendLocked

	// ErrProcessExited is returned by WaitReady when the backend exits
	// before it reports ready.
	ErrProcessExited = core.ErrProcessExited

	// ErrNotReady is returned by WaitReady when the backend is still running
	// but did not report ready within the timeout or attempt limit.
	ErrNotReady = core.ErrNotReady

	// ErrBackendUnhealthy is returned by WaitReady when the health endpoint
	// reports a data status of "error". The wrapped message carries the
	// backend's dataError text.
	ErrBackendUnhealthy = core.ErrBackendUnhealthy
)

// LaunchError reports that the OS refused to create the backend process.
type LaunchError = process.LaunchError
