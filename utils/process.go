package utils

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// StartDetached launches binary in its own session with stdio detached and
// does not wait for it. Returns the child PID.
func StartDetached(binary string, args ...string) (int, error) {
	devnull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devnull.Close() //nolint:errcheck

	cmd := exec.Command(binary, args...) //nolint:gosec // binary path comes from config
	cmd.Stdin = devnull
	cmd.Stdout = devnull
	cmd.Stderr = devnull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", binary, err)
	}
	pid := cmd.Process.Pid
	// Not waited on; release so the runtime does not track it.
	_ = cmd.Process.Release()
	return pid, nil
}
