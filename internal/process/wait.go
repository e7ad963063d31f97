package process

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/giantswarm/sidecar/internal/sentinel"
)

// ErrProcessExited indicates the process exited before becoming ready.
const ErrProcessExited = sentinel.Error("process exited before becoming ready")

// ErrNotReady indicates readiness polling ran out of time or attempts while
// the process was still running.
const ErrNotReady = sentinel.Error("process did not become ready")

// Configuration errors returned by Readiness.Wait.
var (
	ErrIntervalNotPositive = errors.New("interval must be positive")
	ErrTimeoutNotPositive  = errors.New("timeout must be positive")
)

// Observation is the outcome of one readiness attempt.
type Observation struct {
	Ready bool
	// Detail describes why the process is not ready yet. The last detail is
	// carried into the error when polling gives up.
	Detail string
}

// CheckFunc performs one readiness attempt. A non-nil error is terminal and
// stops polling immediately.
type CheckFunc func(ctx context.Context) (Observation, error)

// Readiness polls a running process until a check reports it ready.
type Readiness struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration
	// MaxAttempts caps the number of checks; zero means only Timeout applies.
	MaxAttempts int
	// Exited, when non-nil, is closed once the process is gone. Polling stops
	// as soon as it closes, even mid-interval.
	Exited <-chan struct{}
	Logger *slog.Logger
}

func (r Readiness) validate() error {
	if r.Name == "" {
		return errors.New("readiness: name must not be empty")
	}
	if r.Interval <= 0 {
		return fmt.Errorf("readiness of %s: %w", r.Name, ErrIntervalNotPositive)
	}
	if r.Timeout <= 0 {
		return fmt.Errorf("readiness of %s: %w", r.Name, ErrTimeoutNotPositive)
	}
	return nil
}

// Wait runs check immediately and then once per Interval. It returns nil once
// check reports ready, ErrProcessExited when Exited closes, ErrNotReady when
// Timeout or MaxAttempts is exhausted, the parent context's error when ctx
// ends, or the first error returned by check.
func (r Readiness) Wait(ctx context.Context, check CheckFunc) error {
	if err := r.validate(); err != nil {
		return err
	}
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.Exited != nil {
		go func() {
			select {
			case <-r.Exited:
				cancel()
			case <-pollCtx.Done():
			}
		}()
	}

	var (
		attempts int
		last     string
		checkErr error
	)
	err := wait.PollUntilContextTimeout(pollCtx, r.Interval, r.Timeout, true,
		func(attemptCtx context.Context) (bool, error) {
			if r.exited() {
				return false, ErrProcessExited
			}
			if r.MaxAttempts > 0 && attempts >= r.MaxAttempts {
				return false, ErrNotReady
			}
			attempts++
			obs, err := check(attemptCtx)
			if err != nil {
				checkErr = err
				return false, err
			}
			if !obs.Ready {
				last = obs.Detail
				if log.Enabled(attemptCtx, slog.LevelDebug) {
					log.Debug("not ready yet", "name", r.Name, "attempt", attempts, "detail", obs.Detail)
				}
				return false, nil
			}
			log.Debug("ready", "name", r.Name, "attempt", attempts)
			return true, nil
		})

	switch {
	case err == nil:
		return nil
	case r.exited() || errors.Is(err, ErrProcessExited):
		return fmt.Errorf("%s after %d attempts: %w", r.Name, attempts, ErrProcessExited)
	case checkErr != nil:
		return fmt.Errorf("%s: %w", r.Name, checkErr)
	case ctx.Err() != nil:
		return fmt.Errorf("%s: %w", r.Name, ctx.Err())
	}
	if last == "" {
		return fmt.Errorf("%s after %d attempts: %w", r.Name, attempts, ErrNotReady)
	}
	return fmt.Errorf("%s after %d attempts (last: %s): %w", r.Name, attempts, last, ErrNotReady)
}

func (r Readiness) exited() bool {
	if r.Exited == nil {
		return false
	}
	select {
	case <-r.Exited:
		return true
	default:
		return false
	}
}
