package lockfile

import (
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"

	"github.com/giantswarm/sidecar/internal/fileutil"
	"github.com/giantswarm/sidecar/internal/sentinel"
)

// ErrLocked is returned by TryAcquire when another process holds the lock.
const ErrLocked = sentinel.Error("lock held by another process")

// Lock is an acquired exclusive file lock. Release is safe to call more than
// once and on a nil *Lock.
type Lock struct {
	fl *flock.Flock
}

// TryAcquire takes an exclusive lock on path without blocking, creating the
// parent directory if needed. It returns ErrLocked when the lock is already
// held elsewhere.
func TryAcquire(path string) (*Lock, error) {
	if err := fileutil.EnsureDirForFile(path); err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquiring file lock %s: %w", path, ErrLocked)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path, or "" for a nil Lock.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}

// Release unlocks and closes the lock file. The file stays on disk: removing
// it could invalidate a lock another process acquires in the meantime.
// Errors are logged at debug level since release is best-effort cleanup.
func (l *Lock) Release(logger *slog.Logger) {
	if l == nil || l.fl == nil {
		return
	}
	if err := l.fl.Close(); err != nil && logger != nil {
		logger.Debug("failed to release file lock", "path", l.fl.Path(), "error", err)
	}
}
