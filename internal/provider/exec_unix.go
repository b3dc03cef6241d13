//go:build unix

package provider

import (
	"os/exec"
	"syscall"
)

// killProcessGroup makes cancellation kill the tool and everything it started
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
