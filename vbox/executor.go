package vbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/projecteru2/core/log"
)

// Kind classifies the outcome of a command sequence.
type Kind int

const (
	// KindOK means every command succeeded.
	KindOK Kind = iota
	// KindRecoverable means VBoxManage ran and reported failure. The owning
	// lifecycle operation decides whether to roll back, fall back or give up.
	KindRecoverable
	// KindFatal means VBoxManage could not be run at all, or the context was
	// cancelled. Never recovered from.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// Result is the explicit outcome of Executor.Run.
type Result struct {
	Kind Kind
	// Done is the number of commands that completed successfully.
	Done int
	// Failed is the command that failed; nil when Kind == KindOK.
	Failed *Command
	// Output is the stdout of the last command that ran.
	Output string
	Err    error
}

// OK reports whether every command succeeded.
func (r Result) OK() bool { return r.Kind == KindOK }

// Classify maps an error from a Runner onto a Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindOK
	}
	var execErr *ExecError
	if errors.As(err, &execErr) {
		return KindRecoverable
	}
	return KindFatal
}

// Executor runs command sequences against VBoxManage strictly in order,
// echoing each command to the operator before running it.
type Executor struct {
	runner  Runner
	out     io.Writer
	display string
}

// NewExecutor returns an Executor echoing to out. binary is only used for
// the echoed line.
func NewExecutor(runner Runner, out io.Writer, binary string) *Executor {
	if out == nil {
		out = io.Discard
	}
	display := filepath.Base(binary)
	if display == "" || display == "." {
		display = "VBoxManage"
	}
	return &Executor{runner: runner, out: out, display: display}
}

// Run executes cmds in order and stops at the first failure. It never rolls
// anything back.
func (e *Executor) Run(ctx context.Context, cmds ...Command) Result {
	logger := log.WithFunc("vbox.Run")
	var res Result
	for i := range cmds {
		c := cmds[i]
		if err := ctx.Err(); err != nil {
			return Result{Kind: KindFatal, Done: res.Done, Failed: &c, Err: fmt.Errorf("%s: %w", c.Verb(), err)}
		}
		_, _ = fmt.Fprintf(e.out, ">>> %s %s\n", e.display, c)
		out, err := e.runner.Run(ctx, c)
		res.Output = out
		if err != nil {
			kind := Classify(err)
			logger.Warnf(ctx, "%s failed (%s): %v", c.Verb(), kind, err)
			res.Kind = kind
			res.Failed = &c
			res.Err = err
			return res
		}
		res.Done++
	}
	return res
}
