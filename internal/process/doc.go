// Package process launches the backend child process and owns its handle.
//
// Launcher builds and starts the command, redirecting both output streams to
// a single DiagnosticSink and applying platform spawn attributes. Cell is the
// supervisor's one lock-guarded slot for the live ManagedProcess: TakeAndTerminate
// removes the handle under the lock and signals it outside the lock, so any
// number of racing shutdown paths terminate the child at most once. Readiness
// polls a caller-supplied check without holding any supervisor state and
// gives up as soon as the child exits.
package process
