//go:build !unix

package executor

import (
	"os/exec"
	"time"
)

// configureProcessGroup keeps exec's default cancellation, which kills the
// build process directly.
func configureProcessGroup(cmd *exec.Cmd, grace time.Duration) {}

func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
