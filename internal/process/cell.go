package process

import (
	"errors"
	"log/slog"
	"os"
	"sync"
)

// Handle is a live child process the Cell can terminate.
type Handle interface {
	Pid() int
	Terminate() error
}

var _ Handle = (*ManagedProcess)(nil)

// Cell holds at most one Handle for the lifetime of the host application.
// Every read and write happens under mu; termination signals are always sent
// after mu is released so a slow OS call never blocks another caller.
// It is safe for concurrent use by multiple goroutines.
type Cell struct {
	mu sync.Mutex
	h  Handle

	name string
	log  *slog.Logger
}

// NewCell returns an empty Cell. The name is used in log entries. If logger is
// nil, slog.Default() is used.
func NewCell(name string, logger *slog.Logger) *Cell {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cell{name: name, log: logger}
}

// Install stores h. A nil h is ignored. Installing over an existing handle is
// a caller bug: it is logged and the displaced process is terminated so it
// cannot outlive the host.
func (c *Cell) Install(h Handle) {
	if h == nil {
		return
	}
	c.mu.Lock()
	prev := c.h
	c.h = h
	c.mu.Unlock()

	if prev != nil {
		c.log.Error("process installed twice; terminating the displaced one",
			"process", c.name, "pid", prev.Pid(), "new_pid", h.Pid())
		c.terminate(prev)
	}
}

// Peek returns the current handle without removing it, or nil.
func (c *Cell) Peek() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.h
}

// Take removes and returns the current handle, leaving the cell empty.
// Returns nil if the cell is already empty.
func (c *Cell) Take() Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.h
	c.h = nil
	return h
}

// TakeAndTerminate empties the cell and signals the removed handle, if any.
// On an empty cell it does nothing. Concurrent callers race on Take, so
// exactly one of them signals a given handle. Termination failures are
// logged, never returned. Reports whether a handle was signaled.
func (c *Cell) TakeAndTerminate() bool {
	h := c.Take()
	if h == nil {
		return false
	}
	c.terminate(h)
	return true
}

func (c *Cell) terminate(h Handle) {
	pid := h.Pid()
	err := h.Terminate()
	switch {
	case err == nil:
		c.log.Info("process terminated", "process", c.name, "pid", pid)
	case errors.Is(err, os.ErrProcessDone):
		c.log.Info("process had already exited", "process", c.name, "pid", pid)
	default:
		c.log.Warn("failed to terminate process; it may be orphaned",
			"process", c.name, "pid", pid, "error", err)
	}
}
