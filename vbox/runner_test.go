package vbox_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projecteru2/vboxctl/vbox"
)

func writeScript(t *testing.T, body string, mode os.FileMode) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts")
	}
	path := filepath.Join(t.TempDir(), "VBoxManage")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), mode))
	return path
}

func TestExecRunnerStdout(t *testing.T) {
	bin := writeScript(t, `echo "\"$1\" {0f1c2d3e-4a5b-4c6d-8e7f-001122334455}"`, 0o755)
	out, err := vbox.NewExecRunner(bin).Run(context.Background(), vbox.Command{Args: []string{"web 1"}})
	require.NoError(t, err)
	assert.Equal(t, "\"web 1\" {0f1c2d3e-4a5b-4c6d-8e7f-001122334455}\n", out)
}

func TestExecRunnerExitCode(t *testing.T) {
	bin := writeScript(t, `echo "VBoxManage: error: nope" >&2; exit 3`, 0o755)
	_, err := vbox.NewExecRunner(bin).Run(context.Background(), vbox.SnapshotDelete("vm", "base"))

	var execErr *vbox.ExecError
	require.True(t, errors.As(err, &execErr), "got %v", err)
	assert.Equal(t, 3, execErr.ExitCode)
	assert.Equal(t, []string{"snapshot", "vm", "delete", "base"}, execErr.Args)
	assert.Contains(t, err.Error(), "VBoxManage: error: nope")
	assert.Equal(t, vbox.KindRecoverable, vbox.Classify(err))
}

func TestExecRunnerMissingBinary(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "does-not-exist")
	_, err := vbox.NewExecRunner(bin).Run(context.Background(), vbox.ListVMs())
	assert.ErrorIs(t, err, vbox.ErrToolNotFound)
	assert.Equal(t, vbox.KindFatal, vbox.Classify(err))
}

func TestExecRunnerNotExecutable(t *testing.T) {
	bin := writeScript(t, "exit 0", 0o644)
	_, err := vbox.NewExecRunner(bin).Run(context.Background(), vbox.ListVMs())
	assert.ErrorIs(t, err, vbox.ErrToolNotFound)
}

func TestClientDirectoryAndInfo(t *testing.T) {
	bin := writeScript(t, `case "$1" in
list) printf '"a" {0f1c2d3e-4a5b-4c6d-8e7f-001122334455}\n"b" {1a2b3c4d-5e6f-4a1b-9c2d-66778899aabb}\n' ;;
showvminfo) printf 'name="a"\nVMState="running"\nmemory=1024\n' ;;
esac`, 0o755)
	c := vbox.NewClient(vbox.NewExecRunner(bin))

	d, err := c.Directory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	state, err := c.State(context.Background(), "a")
	require.NoError(t, err)
	assert.EqualValues(t, "running", state)
}
