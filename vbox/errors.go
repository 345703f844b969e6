package vbox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrToolNotFound means VBoxManage could not be executed at all. It is
	// always fatal for the whole command sequence.
	ErrToolNotFound = errors.New("VBoxManage not found or not executable")
	// ErrParse is returned when inventory output contains a line that does not
	// look like `"<name>" {<uuid>}`.
	ErrParse = errors.New("unparseable VBoxManage output")
	// ErrInconsistent is returned when the inventory has a duplicate name or a
	// duplicate UUID.
	ErrInconsistent = errors.New("multiple VMs with the same name or the same UUID")

	ErrConflictingSelector = errors.New("specify --uuid or --name, but not both")
	ErrNoSelector          = errors.New("specify --uuid or --name (use 'vboxctl list' to see a list)")
	ErrNotFound            = errors.New("VM not found")
	ErrNoMatch             = errors.New("no VM found matching pattern")
	ErrBadPattern          = errors.New("invalid name pattern")
)

// ExecError is returned when VBoxManage ran and exited non-zero. Lifecycle
// operations may recover from it (rollback, fallback).
type ExecError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("VBoxManage %s exited with status %d", strings.Join(e.Args, " "), e.ExitCode)
	if s := firstLine(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// AmbiguousError lists every VM a pattern matched when only one target is
// allowed.
type AmbiguousError struct {
	Pattern string
	Names   []string
}

func (e *AmbiguousError) Error() string {
	quoted := make([]string, len(e.Names))
	for i, n := range e.Names {
		quoted[i] = "'" + n + "'"
	}
	return fmt.Sprintf("multiple VMs found with names matching %s: %s (hint: use --exact to turn off pattern matching)",
		e.Pattern, strings.Join(quoted, ", "))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
