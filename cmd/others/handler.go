package others

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
	"github.com/projecteru2/vboxctl/utils"
	"github.com/projecteru2/vboxctl/vbox"
	"github.com/projecteru2/vboxctl/version"
)

type Handler struct {
	cmdcore.BaseHandler
}

func (h Handler) OSTypes(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	pattern, _ := cmd.Flags().GetString("regex")
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("%w %q: %v", vbox.ErrBadPattern, pattern, err)
	}

	osTypes, err := env.Client.OSTypes(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(env.Out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDESCRIPTION\tFAMILY\t64-BIT")
	for _, t := range osTypes {
		if !re.MatchString(t.ID) && !re.MatchString(t.Description) {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", t.ID, t.Description, t.FamilyID, t.Is64Bit)
	}
	return w.Flush()
}

func (h Handler) Menu(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	launcher, _ := cmd.Flags().GetString("launcher")
	if launcher == "" {
		launcher = env.Conf.UIBinary + " --startvm"
	}

	dir, err := env.Client.Directory(ctx)
	if err != nil {
		return err
	}
	data := MenuData{VMs: dir.VMs(), Launcher: launcher}
	if output != "" {
		if self, err := os.Executable(); err == nil {
			data.Regen = strings.Join([]string{self, "menu", "--output", output}, " ")
		}
	}

	var buf bytes.Buffer
	if err := RenderMenu(&buf, data); err != nil {
		return fmt.Errorf("render menu: %w", err)
	}
	if output == "" {
		_, err := env.Out.Write(buf.Bytes())
		return err
	}
	if err := utils.AtomicWriteFile(output, buf.Bytes(), 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("write menu: %w", err)
	}
	log.WithFunc("cmd.menu").Infof(ctx, "wrote %d VM entries to %s", dir.Len(), output)
	return nil
}

func (h Handler) Pick(cmd *cobra.Command, _ []string) error {
	ctx, env, err := h.Env(cmd)
	if err != nil {
		return err
	}
	logger := log.WithFunc("cmd.pick")
	if f, ok := env.In.(*os.File); ok && !term.IsTerminal(int(f.Fd())) { //nolint:gosec
		logger.Warnf(ctx, "stdin is not a terminal, reading the choice from it")
	}

	dir, err := env.Client.Directory(ctx)
	if err != nil {
		return err
	}
	if dir.Len() == 0 {
		_, _ = fmt.Fprintln(env.Out, "No VMs found.")
		return nil
	}
	vm, ok, err := PickVM(env.In, env.Out, dir.VMs())
	if err != nil {
		return err
	}
	if !ok {
		logger.Infof(ctx, "nothing picked")
		return nil
	}
	_, err = env.Manager.LaunchUI(ctx, vm)
	return err
}

func (h Handler) Version(cmd *cobra.Command, _ []string) error {
	_, err := fmt.Fprint(cmd.OutOrStdout(), version.String())
	return err
}
