//go:build !linux && !windows

package process

import "os/exec"

const consoleSuppressionSupported = false

// configureSysProcAttr is a no-op: neither parent-death signals nor console
// suppression exist here.
func configureSysProcAttr(_ *exec.Cmd, _ bool) {}
