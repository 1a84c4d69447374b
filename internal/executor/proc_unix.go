//go:build unix

package executor

import (
	"os/exec"
	"syscall"
	"time"
)

// configureProcessGroup starts the build in its own process group so a
// timeout reaches every compiler and linker it spawned, not just the leader.
func configureProcessGroup(cmd *exec.Cmd, grace time.Duration) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	sig := syscall.SIGTERM
	if grace <= 0 {
		sig = syscall.SIGKILL
	}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, sig)
	}
}

// killProcessGroup removes anything left in the group after a timeout.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
