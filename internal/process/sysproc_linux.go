//go:build linux

package process

import (
	"os/exec"
	"syscall"
)

const consoleSuppressionSupported = false

// configureSysProcAttr sets Linux-specific process attributes on cmd.
// Pdeathsig delivers SIGTERM to the backend if the host dies without running
// any of its shutdown hooks. There is no console window to hide.
func configureSysProcAttr(cmd *exec.Cmd, _ bool) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Pdeathsig: syscall.SIGTERM,
	}
}
