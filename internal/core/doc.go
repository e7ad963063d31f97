// Package core provides the internal implementation of the sidecar supervisor.
// It contains the Supervisor (one-shot startup that resolves the runtime and
// artifact and launches the backend, plus idempotent termination shared by
// every shutdown hook), its immutable SupervisorConfig, and the package logger.
package core
