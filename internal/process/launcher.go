package process

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/giantswarm/sidecar/internal/sentinel"
)

// ErrSpawnFailed matches every *LaunchError via errors.Is.
const ErrSpawnFailed = sentinel.Error("backend spawn failed")

// ErrEmptyRuntime is returned by Spawn when no runtime was resolved.
const ErrEmptyRuntime = sentinel.Error("runtime must not be empty")

// ErrEmptyArtifact is returned by Spawn when no artifact path was given.
const ErrEmptyArtifact = sentinel.Error("artifact path must not be empty")

// LaunchError reports that the OS refused to create the backend process.
// It unwraps to the underlying cause (for example exec.ErrNotFound or
// os.ErrPermission) and matches ErrSpawnFailed.
type LaunchError struct {
	Runtime  string
	Artifact string
	Err      error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("start backend %s with %s: %v", e.Artifact, e.Runtime, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSpawnFailed.
func (e *LaunchError) Is(target error) bool {
	return target == ErrSpawnFailed
}

// Launcher starts backend processes. The zero value runs
// "<runtime> <artifact>" with no extra flags; set ArtifactFlag to "-jar" for a
// JVM runtime.
type Launcher struct {
	// ArtifactFlag precedes the artifact path on the command line.
	ArtifactFlag string
	// RuntimeArgs are passed to the runtime before ArtifactFlag.
	RuntimeArgs []string
	// HideConsole requests that no console window is created for the child.
	// Applied only where the platform has the concept.
	HideConsole bool
	// Logger (optional, defaults to slog.Default())
	Logger *slog.Logger
}

// Args returns the argument list (without argv[0]) used to run artifact.
func (l Launcher) Args(artifact string) []string {
	args := make([]string, 0, len(l.RuntimeArgs)+2)
	args = append(args, l.RuntimeArgs...)
	if l.ArtifactFlag != "" {
		args = append(args, l.ArtifactFlag)
	}
	return append(args, artifact)
}

// Spawn starts runtime with artifact as its payload and returns without
// waiting for the child. When sink is non-nil, stdout and stderr go to it and
// the launcher takes ownership of it: the sink is closed once the child has
// been reaped, or immediately if the spawn fails. When sink is nil the child
// inherits the parent's streams, unless HideConsole is set, in which case the
// output is discarded. Stdin is never wired.
func (l Launcher) Spawn(runtime, artifact string, sink *DiagnosticSink) (*ManagedProcess, error) {
	log := l.Logger
	if log == nil {
		log = slog.Default()
	}
	if runtime == "" {
		sink.Close()
		return nil, &LaunchError{Runtime: runtime, Artifact: artifact, Err: ErrEmptyRuntime}
	}
	if artifact == "" {
		sink.Close()
		return nil, &LaunchError{Runtime: runtime, Artifact: artifact, Err: ErrEmptyArtifact}
	}

	cmd := exec.Command(runtime, l.Args(artifact)...)
	switch {
	case sink != nil && sink.file != nil:
		cmd.Stdout = sink.file
		cmd.Stderr = sink.file
	case !l.HideConsole:
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if l.HideConsole && !consoleSuppressionSupported {
		log.Debug("console suppression not supported on this platform; ignoring")
	}
	configureSysProcAttr(cmd, l.HideConsole)

	if err := cmd.Start(); err != nil {
		sink.Close()
		return nil, &LaunchError{Runtime: runtime, Artifact: artifact, Err: err}
	}

	p := &ManagedProcess{
		cmd:      cmd,
		pid:      cmd.Process.Pid,
		exitCode: -1,
	}
	exited := make(chan struct{})
	p.exited = exited

	// cmd.Wait must be called exactly once per started process. This
	// goroutine is the only caller; everyone else observes Exited.
	go func() {
		err := cmd.Wait()
		p.exitCode = exitCodeFrom(err, cmd.ProcessState)
		p.waitErr = err
		sink.Close()
		close(exited)
	}()

	return p, nil
}

// ManagedProcess is the handle to a running backend child.
type ManagedProcess struct {
	cmd    *exec.Cmd
	pid    int
	exited <-chan struct{}

	// Written by the reaper goroutine before exited is closed; read only
	// after receiving from exited.
	exitCode int
	waitErr  error
}

// Pid returns the child's process id.
func (p *ManagedProcess) Pid() int { return p.pid }

// Exited returns a channel that is closed once the child has exited and been
// reaped. Safe to select on from any number of goroutines.
func (p *ManagedProcess) Exited() <-chan struct{} { return p.exited }

// ExitCode returns the child's exit code, or -1 if it has not exited or was
// killed by a signal. Only meaningful after Exited is closed.
func (p *ManagedProcess) ExitCode() int {
	select {
	case <-p.exited:
		return p.exitCode
	default:
		return -1
	}
}

// WaitErr returns the error from cmd.Wait once the child has exited, or nil
// while it is still running.
func (p *ManagedProcess) WaitErr() error {
	select {
	case <-p.exited:
		return p.waitErr
	default:
		return nil
	}
}

// Terminate sends the child an uncatchable kill and returns without waiting
// for it to exit. A child that already exited yields an error wrapping
// os.ErrProcessDone.
func (p *ManagedProcess) Terminate() error {
	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill backend pid %d: %w", p.pid, err)
	}
	return nil
}

func exitCodeFrom(waitErr error, state *os.ProcessState) int {
	if state != nil {
		return state.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ProcessState != nil {
		return exitErr.ProcessState.ExitCode()
	}
	return -1
}
