//go:build !unix

package benchmark

import "os/exec"

func setProcessGroup(cmd *exec.Cmd) {}
