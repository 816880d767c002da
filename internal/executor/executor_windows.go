//go:build windows

package executor

import "os/exec"

// setProcessGroup is a no-op on Windows; WaitDelay alone unblocks Wait when
// the deadline kill leaves a descendant holding the pipes.
func setProcessGroup(cmd *exec.Cmd) {}
