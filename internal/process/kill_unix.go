//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Detach places cmd in its own process group so that KillProcessGroup can
// reach the children it spawns (wkhtmltopdf and httrack both fork).
func Detach(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup sends SIGKILL to the process group led by pid.
func KillProcessGroup(pid int) {
	// Best effort; the caller still waits on the process.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
