// Package netutil provides the loopback checks used to decide whether the
// backend is ready: an HTTP health endpoint check and a bare TCP connect
// fallback.
package netutil
