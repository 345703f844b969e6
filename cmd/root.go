package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/projecteru2/core/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcore "github.com/projecteru2/vboxctl/cmd/core"
	cmdothers "github.com/projecteru2/vboxctl/cmd/others"
	cmdsnapshot "github.com/projecteru2/vboxctl/cmd/snapshot"
	cmdvm "github.com/projecteru2/vboxctl/cmd/vm"
	"github.com/projecteru2/vboxctl/config"
)

var (
	cfgFile string
	conf    *config.Config
)

// envKeys are readable from VBOXCTL_* variables without a config file.
var envKeys = []string{
	"ui_binary", "default_ostype", "default_memory", "default_cpus", "default_vram",
	"disk_size", "disk_file", "bridge", "stop_timeout_seconds", "poll_interval_ms", "lock_file",
}

var rootCmd = func() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vboxctl",
		Short:         "vboxctl - VirtualBox VM lifecycle from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(cmdcore.CommandContext(cmd))
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	cmd.PersistentFlags().String("vbox", "", "VBoxManage binary path")
	cmd.PersistentFlags().String("vm-dir", "", "base folder for new VMs")
	cmd.PersistentFlags().BoolP("yes", "y", false, "answer yes to every confirmation")
	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("vboxmanage", cmd.PersistentFlags().Lookup("vbox"))
	_ = viper.BindPFlag("vm_dir", cmd.PersistentFlags().Lookup("vm-dir"))
	_ = viper.BindPFlag("assume_yes", cmd.PersistentFlags().Lookup("yes"))
	_ = viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	viper.SetEnvPrefix("VBOXCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, k := range envKeys {
		_ = viper.BindEnv(k)
	}

	base := cmdcore.BaseHandler{ConfProvider: func() *config.Config { return conf }}

	for _, c := range cmdvm.Commands(cmdvm.Handler{BaseHandler: base}) {
		cmd.AddCommand(c)
	}
	for _, c := range cmdsnapshot.Commands(cmdsnapshot.Handler{BaseHandler: base}) {
		cmd.AddCommand(c)
	}
	for _, c := range cmdothers.Commands(cmdothers.Handler{BaseHandler: base}) {
		cmd.AddCommand(c)
	}

	return cmd
}()

func initConfig(ctx context.Context) error {
	conf = config.DefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	}

	if err := viper.Unmarshal(conf); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	conf.Normalize()

	return log.SetupLog(ctx, &conf.Log, "")
}

// Execute is the main entry point called from main.go.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return rootCmd.ExecuteContext(ctx)
}
