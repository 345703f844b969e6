// Package confirm asks the operator to approve a target set before anything
// runs against it.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"golang.org/x/term"

	"github.com/projecteru2/vboxctl/types"
)

// ErrDeclined is returned when the operator does not answer yes.
var ErrDeclined = errors.New("aborted: not confirmed")

// Prompter shows target tables and reads a yes/no answer.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes skips reading and answers yes.
	AssumeYes bool
}

// Confirm prints targets (UUID, name, live state) and requires the operator
// to answer y/yes. Any other answer, including EOF, returns ErrDeclined.
func (p *Prompter) Confirm(ctx context.Context, action string, targets []types.VMStatus) error {
	PrintTable(p.Out, targets)
	if p.AssumeYes {
		_, _ = fmt.Fprintf(p.Out, "%s %d VM(s): confirmed by --yes\n", action, len(targets))
		return nil
	}
	if f, ok := p.In.(interface{ Fd() uintptr }); ok && !term.IsTerminal(int(f.Fd())) { //nolint:gosec
		log.WithFunc("confirm.Confirm").Warnf(ctx, "stdin is not a terminal, reading confirmation from it (use --yes to skip)")
	}
	_, _ = fmt.Fprintf(p.Out, "%s %d VM(s). Continue? [y/N] ", action, len(targets))

	answer, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		_, _ = fmt.Fprintln(p.Out)
		return ErrDeclined
	}
}

// PrintTable writes a UUID/NAME/STATE table.
func PrintTable(w io.Writer, targets []types.VMStatus) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "UUID\tNAME\tSTATE")
	for _, t := range targets {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", t.ID, t.Name, t.State)
	}
	_ = tw.Flush()
}
