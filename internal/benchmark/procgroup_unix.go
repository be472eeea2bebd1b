//go:build unix

package benchmark

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the script in its own process group and makes
// cancellation kill the whole group, so helpers the script spawned (psql,
// a postgres it launched) die with it and release the output pipe.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
