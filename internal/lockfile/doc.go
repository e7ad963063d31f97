// Package lockfile guards the backend against being launched twice on the same
// machine. The supervisor holds an exclusive advisory lock next to its
// diagnostic log for as long as its child process is alive; a second host
// instance that cannot take the lock runs without a backend of its own.
package lockfile
