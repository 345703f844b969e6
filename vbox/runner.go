package vbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Runner executes one VBoxManage command and returns its stdout.
// Implementations must return an error wrapping ErrToolNotFound when the
// binary cannot be started, and *ExecError when it exits non-zero.
type Runner interface {
	Run(ctx context.Context, c Command) (string, error)
}

// ExecRunner runs the configured VBoxManage binary as a child process.
type ExecRunner struct {
	Binary string
}

// NewExecRunner returns a Runner for the binary at path.
func NewExecRunner(path string) *ExecRunner {
	return &ExecRunner{Binary: path}
}

func (r *ExecRunner) Run(ctx context.Context, c Command) (string, error) {
	cmd := exec.CommandContext(ctx, r.Binary, c.Args...) //nolint:gosec // binary path comes from config
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stdout.String(), fmt.Errorf("%s: %w", c.Verb(), ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.String(), &ExecError{Args: c.Args, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return "", fmt.Errorf("%w: %s: %v", ErrToolNotFound, r.Binary, err)
	}
	return "", fmt.Errorf("run %s: %w", r.Binary, err)
}
