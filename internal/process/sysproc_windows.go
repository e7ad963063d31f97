//go:build windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

const consoleSuppressionSupported = true

// configureSysProcAttr keeps a console window from flashing up for the
// backend when the host is a windowed release build.
func configureSysProcAttr(cmd *exec.Cmd, hideConsole bool) {
	if !hideConsole {
		return
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
	cmd.SysProcAttr.HideWindow = true
}
