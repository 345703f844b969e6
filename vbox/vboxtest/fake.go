// Package vboxtest provides a scripted vbox.Runner for tests.
package vboxtest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/projecteru2/vboxctl/vbox"
)

// Response is what the fake returns for a matching command.
type Response struct {
	Output string
	Err    error
}

// Fail returns a recoverable failure response, as if VBoxManage exited 1.
func Fail(stderr string) Response {
	return Response{Err: &vbox.ExecError{ExitCode: 1, Stderr: stderr}}
}

// Missing returns a fatal tool-not-found response.
func Missing() Response {
	return Response{Err: fmt.Errorf("%w: fake", vbox.ErrToolNotFound)}
}

// FakeRunner answers commands by prefix. Responses queued with Push are
// consumed in order before falling back to the handlers set with On.
type FakeRunner struct {
	mu       sync.Mutex
	handlers map[string]Response
	queued   map[string][]Response
	calls    []vbox.Command
}

// New returns an empty FakeRunner; unknown commands succeed with no output.
func New() *FakeRunner {
	return &FakeRunner{
		handlers: make(map[string]Response),
		queued:   make(map[string][]Response),
	}
}

// On sets the response for every command whose joined args start with prefix.
func (f *FakeRunner) On(prefix string, r Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[prefix] = r
	return f
}

// Push queues a one-shot response for prefix.
func (f *FakeRunner) Push(prefix string, r Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[prefix] = append(f.queued[prefix], r)
	return f
}

// Run implements vbox.Runner.
func (f *FakeRunner) Run(_ context.Context, c vbox.Command) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
	line := strings.Join(c.Args, " ")

	if prefix := longestPrefix(line, f.queued); prefix != "" {
		r := f.queued[prefix][0]
		f.queued[prefix] = f.queued[prefix][1:]
		if len(f.queued[prefix]) == 0 {
			delete(f.queued, prefix)
		}
		return r.Output, withArgs(r.Err, c)
	}
	if prefix := longestPrefix(line, f.handlers); prefix != "" {
		r := f.handlers[prefix]
		return r.Output, withArgs(r.Err, c)
	}
	return "", nil
}

// Calls returns every command run so far, joined with spaces.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = strings.Join(c.Args, " ")
	}
	return out
}

// CallsWithPrefix returns the calls that start with prefix.
func (f *FakeRunner) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func longestPrefix[T any](line string, m map[string]T) string {
	best := ""
	for p := range m {
		if strings.HasPrefix(line, p) && len(p) > len(best) {
			best = p
		}
	}
	return best
}

func withArgs(err error, c vbox.Command) error {
	if e, ok := err.(*vbox.ExecError); ok {
		cp := *e
		cp.Args = c.Args
		return &cp
	}
	return err
}
